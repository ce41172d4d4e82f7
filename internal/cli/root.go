// Package cli wires configuration, storage and the two front ends into the
// portfolio-terminal command tree.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio-terminal/internal/config"
)

type rootOptions struct {
	configPath string
	envFile    string
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the web server.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "portfolio-terminal",
		Short: "Portfolio site with a terminal interface and a checkout proxy",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if opts.envFile == "" {
				return nil
			}
			if err := godotenv.Overload(opts.envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", opts.envFile, err)
			}
			return nil
		},
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "extra .env file loaded over the environment")

	serveCmd := newServeCmd(opts)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd, newTerminalCmd(opts))

	return rootCmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
