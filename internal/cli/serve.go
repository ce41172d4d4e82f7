package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio-terminal/internal/content"
	"github.com/Zachkp/portfolio-terminal/internal/polar"
	"github.com/Zachkp/portfolio-terminal/internal/server"
	"github.com/Zachkp/portfolio-terminal/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio page and the checkout API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			if !cfg.HasToken() {
				log.Println("WARNING: no Polar access token set; checkout endpoints will answer 500. Set POLAR_ACCESS_TOKEN.")
			}

			srvOpts := server.Options{
				Config: cfg,
				Provider: polar.NewClient(polar.Options{
					BaseURL:      cfg.Polar.BaseURL,
					Token:        cfg.Polar.Token,
					Timeout:      cfg.Polar.Timeout.Duration,
					SessionPaths: cfg.Polar.SessionPaths,
				}),
				Profile: content.Default(),
				Catalog: cfg.Catalog(),
			}

			if cfg.Visits.Enabled {
				st, err := store.Open(cfg.Visits.StorePath)
				if err != nil {
					return err
				}
				defer st.Close()

				if stats, err := st.VisitStats(cmd.Context()); err == nil {
					log.Printf("Privacy: visitor tracking enabled with hashed IP addresses (%d visits, %d unique)", stats.Total, stats.Unique)
				}
				srvOpts.Visits = st
			}

			srv, err := server.New(srvOpts)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
