package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/dashboard"
)

var (
	grafanaOut        string
	grafanaDatasource string
)

var grafanaCmd = &cobra.Command{
	Use:   "grafana",
	Short: "Render the Grafana dashboard for the health table",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := dashboard.Options{DatasourceUID: grafanaDatasource}
		if g := cfg.Sinks.Greptime; g != nil {
			opts.Database = g.Database
			opts.Table = g.Table
		}
		paths, err := dashboard.Render(grafanaOut, opts)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	grafanaCmd.Flags().StringVar(&grafanaOut, "out", "build", "Output directory for rendered dashboards")
	grafanaCmd.Flags().StringVar(&grafanaDatasource, "datasource", "", "Grafana datasource UID (defaults to $"+dashboard.DatasourceEnv+")")
}
