package http

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/jmehdipour/pisa-dashboard/internal/lookup"
	"github.com/jmehdipour/pisa-dashboard/internal/service/dashboard"
	echo "github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	byMaterial = "material"
	byCustomer = "customer"
)

type templateRenderer struct{ t *template.Template }

func newTemplateRenderer() *templateRenderer {
	return &templateRenderer{t: template.Must(template.ParseFS(templateFS, "templates/*.html"))}
}

func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// chartEmbed is one ECharts instance on the page.
type chartEmbed struct {
	ID     string
	Option map[string]any
}

type pageData struct {
	By       string
	Query    string
	Stats    lookup.Stats
	Prompt   dashboard.Notice
	Notice   *dashboard.Notice
	Material *dashboard.MaterialView
	Customer *dashboard.CustomerView
	Charts   []chartEmbed
}

// pageHandler renders the dashboard: ?by=material|customer&q=<name or id>.
func pageHandler(catalog Catalog, views *dashboard.Builder) echo.HandlerFunc {
	return func(c echo.Context) error {
		data := pageData{
			By:     c.QueryParam("by"),
			Query:  c.QueryParam("q"),
			Stats:  catalog.Stats(),
			Prompt: dashboard.NoticePrompt,
		}
		if data.By != byCustomer {
			data.By = byMaterial
		}

		if strings.TrimSpace(data.Query) != "" {
			ctx := c.Request().Context()
			switch data.By {
			case byCustomer:
				cu, err := catalog.Customer(ctx, data.Query)
				if err != nil {
					n := dashboard.CustomerNotice(err)
					data.Notice = &n
					break
				}
				v := views.Customer(cu)
				data.Customer = &v
				data.Charts = customerCharts(v)
			default:
				m, err := catalog.Material(ctx, data.Query)
				if err != nil {
					n := dashboard.MaterialNotice(err)
					data.Notice = &n
					break
				}
				v := views.Material(m)
				data.Material = &v
				data.Charts = materialCharts(v)
			}
		}

		return c.Render(http.StatusOK, "dashboard.html", data)
	}
}

func materialCharts(v dashboard.MaterialView) []chartEmbed {
	var out []chartEmbed
	if v.Transition != nil && v.Transition.Chart != nil {
		out = append(out, chartEmbed{ID: "transition-chart", Option: v.Transition.Chart.Option()})
	}
	if v.Stationary != nil && v.Stationary.Chart != nil {
		out = append(out, chartEmbed{ID: "stationary-chart", Option: v.Stationary.Chart.Option()})
	}
	return out
}

func customerCharts(v dashboard.CustomerView) []chartEmbed {
	var out []chartEmbed
	if v.CLV != nil && v.CLV.Gauge != nil {
		out = append(out, chartEmbed{ID: "clv-gauge", Option: v.CLV.Gauge.Option()})
	}
	if v.Recurrence != nil && v.Recurrence.Gauge != nil {
		out = append(out, chartEmbed{ID: "recurrence-gauge", Option: v.Recurrence.Gauge.Option()})
	}
	return out
}
