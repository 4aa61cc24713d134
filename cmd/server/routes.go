package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/bootstrap"
	"github.com/dmitrymomot/bootstrap/pkg/config"
	"github.com/dmitrymomot/bootstrap/pkg/logger"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the routes the application serves",
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := readOptions(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		opts[config.KeyStart] = false

		app, err := bootstrap.New(context.Background(), nil, opts, bootstrap.WithLogger(logger.Noop()))
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		for _, r := range app.Routes() {
			fmt.Fprintln(out, r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
