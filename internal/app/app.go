package app

import (
	"context"
	"fmt"
	"log"

	"github.com/bookwormdev/bookworm/internal/api"
	"github.com/bookwormdev/bookworm/internal/config"
	"github.com/bookwormdev/bookworm/internal/credentials"
	"github.com/bookwormdev/bookworm/internal/session"
	"github.com/bookwormdev/bookworm/internal/ui"
)

// Options configure the Bookworm application.
type Options struct {
	ConfigPath string
	ServerURL  string // overrides the configured server when set
}

// Run boots the Bookworm TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	store, err := credentials.NewStore(cfg.CredentialsPath)
	if err != nil {
		return fmt.Errorf("init credentials store: %w", err)
	}

	client, err := api.NewClient(cfg.ServerURL, store)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	sess := session.New(store, client)

	// Hydrate from a token left over by a previous run. A failure here
	// already resolved into a state transition; log and move on.
	initCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	if err := sess.Initialize(initCtx); err != nil {
		log.Printf("session hydration failed: %v", err)
	}
	cancel()

	uiOpts := ui.Options{
		Context: ctx,
		Client:  client,
		Session: sess,
		Config:  &cfg,
	}
	return ui.Run(uiOpts)
}
