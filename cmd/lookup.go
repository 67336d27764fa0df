package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jmehdipour/pisa-dashboard/internal/config"
	"github.com/jmehdipour/pisa-dashboard/internal/logger"
	"github.com/jmehdipour/pisa-dashboard/internal/lookup"
	"github.com/jmehdipour/pisa-dashboard/internal/service/dashboard"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query the reference tables from the command line",
}

var lookupMaterialCmd = &cobra.Command{
	Use:   "material <name>",
	Short: "Show a material as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, func(ctx context.Context, svc *lookup.Service, views *dashboard.Builder) (any, error) {
			m, err := svc.Material(ctx, args[0])
			if err != nil {
				return nil, lookupError(dashboard.MaterialNotice(err), err)
			}
			return views.Material(m), nil
		})
	},
}

var lookupCustomerCmd = &cobra.Command{
	Use:   "customer <id>",
	Short: "Show a customer as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, func(ctx context.Context, svc *lookup.Service, views *dashboard.Builder) (any, error) {
			c, err := svc.Customer(ctx, args[0])
			if err != nil {
				return nil, lookupError(dashboard.CustomerNotice(err), err)
			}
			return views.Customer(c), nil
		})
	},
}

func init() {
	lookupCmd.AddCommand(lookupMaterialCmd, lookupCustomerCmd)
}

type lookupFunc func(ctx context.Context, svc *lookup.Service, views *dashboard.Builder) (any, error)

func runLookup(cmd *cobra.Command, fn lookupFunc) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// stdout carries the JSON result
	if err := logger.Init(cfg.Log.Level, "stderr"); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	views, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	view, err := fn(ctx, svc, views)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), view)
}

func lookupError(n dashboard.Notice, err error) error {
	if errors.Is(err, lookup.ErrNotFound) || errors.Is(err, lookup.ErrInvalidID) {
		return errors.New(n.Text)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
