package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/biblioteka14/stacks/internal/api"
	"github.com/biblioteka14/stacks/internal/config"
	"github.com/biblioteka14/stacks/internal/history"
	"github.com/biblioteka14/stacks/internal/prefs"
	"github.com/biblioteka14/stacks/internal/scan"
	"github.com/biblioteka14/stacks/internal/scan/zbar"
	"github.com/biblioteka14/stacks/internal/state"
	"github.com/biblioteka14/stacks/internal/ui"
)

// Credentials asks the operator for an email and password. It runs before
// the TUI starts, so implementations may talk to the terminal directly.
type Credentials func(ctx context.Context) (email, password string, err error)

// Options configure the stacks application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/stacks/prefs.toml
	PollEvery  int    // seconds; zero uses default

	// Login is invoked when no stored token exists or the stored token is
	// rejected by the server.
	Login Credentials
}

// Run boots the stacks TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	client.SetTimeout(cfg.RequestTimeout)

	admin, err := authenticate(ctx, client, &userPrefs, opts)
	if err != nil {
		return err
	}

	trail, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open scan history: %w", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if cfg.PollEvery > 0 {
		interval = cfg.PollEvery
	}
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller
	StartPoller(ctx, store, client, interval)

	// Do initial refresh to populate store before UI starts
	refresh(ctx, store, client)

	feed := ui.NewScanFeed()
	viewfinder := ui.NewViewfinder()
	controller := scan.NewController(scan.Options{
		Context:  ctx,
		Decoder:  &zbar.Decoder{},
		Media:    zbar.Media{},
		Surface:  viewfinder,
		Verifier: client,
		Notify:   feed.Notify,
	})
	defer controller.Close()

	uiOpts := ui.Options{
		Context:    ctx,
		Client:     client,
		Store:      store,
		Controller: controller,
		Viewfinder: viewfinder,
		Feed:       feed,
		History:    trail,
		Admin:      admin,
		PollTick:   interval,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// authenticate validates the stored token, falling back to an interactive
// login. A fresh token is persisted to prefs on success.
func authenticate(ctx context.Context, client *api.Client, userPrefs *prefs.Prefs, opts Options) (*api.AdminProfile, error) {
	if token := strings.TrimSpace(userPrefs.Token); token != "" {
		client.SetToken(token)
		admin, err := client.Me(ctx)
		if err == nil {
			return admin, nil
		}
		client.SetToken("")
	}

	if opts.Login == nil {
		return nil, fmt.Errorf("no valid session and no login prompt configured")
	}

	email, password, err := opts.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	if _, err := client.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	admin, err := client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch admin profile: %w", err)
	}

	userPrefs.Token = client.Token()
	userPrefs.AdminEmail = admin.Email
	if err := prefs.Save(opts.PrefsPath, *userPrefs); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return admin, nil
}
