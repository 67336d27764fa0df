package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/jmehdipour/pisa-dashboard/internal/config"
	"github.com/jmehdipour/pisa-dashboard/internal/db"
	"github.com/jmehdipour/pisa-dashboard/internal/repository"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the CSV reference tables into MySQL (dev: DROP & CREATE tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		// 2) read CSVs
		csvSrc := repository.NewCSVSource(cfg.CSV.MaterialsPath, cfg.CSV.CustomersPath)
		materials, customers, err := repository.LoadReference(ctx, csvSrc)
		if err != nil {
			return err
		}

		// 3) connect MySQL
		sqlDB, err := db.NewMySQLConnection(ctx, db.SQLOptsFrom(cfg.MySQL))
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		// 4) write tables
		if err := repository.ImportTable(ctx, sqlDB, cfg.Source.MaterialsTable, materials); err != nil {
			return err
		}
		log.Printf(">> %s: %d rows imported", cfg.Source.MaterialsTable, len(materials.Rows))

		if err := repository.ImportTable(ctx, sqlDB, cfg.Source.CustomersTable, customers); err != nil {
			return err
		}
		log.Printf(">> %s: %d rows imported", cfg.Source.CustomersTable, len(customers.Rows))

		return nil
	},
}
