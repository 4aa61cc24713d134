package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/bootstrap/pkg/config"
)

const defaultConfigFile = "app.yaml"

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Run a step based web application",
	Long: `Run a web application assembled from a YAML description of its routes.

Settings not present in the file fall back to the process environment
(APP_ENV, HTTP_PORT, SESSION_SECRET, ...) and then to built-in defaults.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "application file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file first")
}

// readOptions loads the application file. A missing default file yields
// empty options so the app can be configured from the environment alone.
func readOptions(path string, explicit bool) (config.Options, error) {
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Options{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	opts := config.Options{}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, nil
}
