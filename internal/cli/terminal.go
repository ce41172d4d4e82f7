package cli

import (
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/config"
	"github.com/Zachkp/portfolio-terminal/internal/content"
	"github.com/Zachkp/portfolio-terminal/internal/store"
	"github.com/Zachkp/portfolio-terminal/internal/terminal"
	"github.com/Zachkp/portfolio-terminal/internal/tui"
)

func newTerminalCmd(opts *rootOptions) *cobra.Command {
	var (
		apiURL    string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:     "terminal",
		Aliases: []string{"term", "t"},
		Short:   "Open the interactive portfolio terminal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if noBrowser {
				cfg.Terminal.OpenBrowser = false
			}

			if cfg.Terminal.LogPath != "" {
				f, err := tea.LogToFile(cfg.Terminal.LogPath, "terminal")
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
			}

			st, err := store.Open(cfg.Terminal.StorePath)
			if err != nil {
				return err
			}
			defer st.Close()

			tracker := newTracker(cfg, st)
			defer tracker.Close()

			last, err := st.LastCheckout(cmd.Context())
			switch {
			case err == nil:
				s := tracker.Resume(cmd.Context(), last)
				log.Printf("terminal: resumed checkout %s (%s)", s.CheckoutID, s.Status)
			case !errors.Is(err, store.ErrNoCheckout):
				log.Printf("terminal: could not load last checkout: %v", err)
			}

			interp := terminal.New(terminal.Options{
				Profile:  content.Default(),
				Catalog:  cfg.Catalog(),
				Checkout: tracker,
			})
			return tui.Run(cmd.Context(), interp, tracker)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "checkout API base URL (overrides API_URL)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print checkout links instead of opening a browser")
	return cmd
}

func newTracker(cfg *config.Config, rec checkout.Recorder) *checkout.Tracker {
	opener := checkout.NopOpener
	if cfg.Terminal.OpenBrowser {
		opener = checkout.BrowserOpener
	}

	return checkout.NewTracker(
		checkout.NewAPIClient(cfg.ClientAPIURL(), nil),
		checkout.WithRecorder(rec),
		checkout.WithOpener(opener),
		checkout.WithInterval(cfg.Checkout.PollInterval.Duration),
		checkout.WithMaxAttempts(cfg.Checkout.MaxAttempts),
	)
}
