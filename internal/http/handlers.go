package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/jmehdipour/pisa-dashboard/internal/chart"
	"github.com/jmehdipour/pisa-dashboard/internal/lookup"
	"github.com/jmehdipour/pisa-dashboard/internal/service/dashboard"
	echo "github.com/labstack/echo/v4"
)

func healthHandler(catalog Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := catalog.Stats()
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"materials": st.Materials,
			"customers": st.Customers,
		})
	}
}

func materialHandler(catalog Catalog, views *dashboard.Builder) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := catalog.Material(c.Request().Context(), c.Param("name"))
		if errors.Is(err, lookup.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "material not found"})
		}
		if err != nil {
			c.Logger().Errorf("material lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		}
		return c.JSON(http.StatusOK, views.Material(m))
	}
}

func customerHandler(catalog Catalog, views *dashboard.Builder) echo.HandlerFunc {
	return func(c echo.Context) error {
		cu, err := catalog.Customer(c.Request().Context(), c.Param("id"))
		switch {
		case errors.Is(err, lookup.ErrInvalidID):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid customer id"})
		case errors.Is(err, lookup.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "customer not found"})
		case err != nil:
			c.Logger().Errorf("customer lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
		}
		return c.JSON(http.StatusOK, views.Customer(cu))
	}
}

func transitionSVGHandler(catalog Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := catalog.Material(c.Request().Context(), c.Param("name"))
		if err != nil {
			return chartLookupError(c, err)
		}
		if m.Transition == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "transition matrix not available"})
		}
		pie := dashboard.TransitionPie(*m.Transition)
		var buf bytes.Buffer
		if err := pie.RenderSVG(&buf); err != nil {
			return chartRenderError(c, err)
		}
		return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
	}
}

func stationarySVGHandler(catalog Catalog) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := catalog.Material(c.Request().Context(), c.Param("name"))
		if err != nil {
			return chartLookupError(c, err)
		}
		if m.Stationary == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "stationary probabilities not available"})
		}
		bars := dashboard.StationaryBars(*m.Stationary)
		var buf bytes.Buffer
		if err := bars.RenderSVG(&buf); err != nil {
			return chartRenderError(c, err)
		}
		return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
	}
}

func chartLookupError(c echo.Context, err error) error {
	if errors.Is(err, lookup.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "material not found"})
	}
	c.Logger().Errorf("material lookup failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "lookup failed"})
}

func chartRenderError(c echo.Context, err error) error {
	if errors.Is(err, chart.ErrEmptyChart) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "nothing to draw"})
	}
	c.Logger().Errorf("chart render failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "render failed"})
}
