package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nexus-ai/nexus/internal/bot"
	"github.com/nexus-ai/nexus/internal/commands"
	"github.com/nexus-ai/nexus/internal/config"
	"github.com/nexus-ai/nexus/internal/history"
	"github.com/nexus-ai/nexus/internal/monitor"
	"github.com/nexus-ai/nexus/internal/profile"
	"github.com/nexus-ai/nexus/internal/router"
	"github.com/nexus-ai/nexus/internal/system"
	"github.com/nexus-ai/nexus/internal/websearch"
)

// app bundles the assembled conversation core and its supporting services.
type app struct {
	cfg     *config.Config
	bot     *bot.Bot
	profile *profile.Store
	monitor *monitor.Service
}

// buildApp loads persisted state and wires the bot from configuration.
func buildApp(cfg *config.Config) (*app, error) {
	store, err := profile.Load(
		cfg.ProfilePath(),
		cfg.Identity.UserName,
		cfg.Identity.BotName,
		cfg.System.Volume,
		cfg.System.Brightness,
	)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	hist := history.New(cfg.HistoryDir(), cfg.RecentPath(), cfg.History.RecentLimit)
	control := system.New()

	var searcher *websearch.Client
	if cfg.Web.Search.APIKey != "" {
		searcher = &websearch.Client{
			HTTPClient: &http.Client{Timeout: 10 * time.Second},
			Provider:   cfg.Web.Search.Provider,
			APIKey:     cfg.Web.Search.APIKey,
		}
	}

	opts := router.Options{
		Profile: store,
		System:  control,
	}
	if searcher != nil {
		opts.Search = searcher
	}
	rt := router.New(opts)
	rt.SetWebSearchEnabled(cfg.Web.Search.Enabled)

	b, err := bot.New(bot.Options{
		Profile:  store,
		Router:   rt,
		History:  hist,
		Commands: commands.New(store, hist, rt),
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		bot:     b,
		profile: store,
		monitor: monitor.NewService(control, cfg.System.MonitorRefresh),
	}, nil
}

// bannerLines builds the greeting banner shown when an interactive channel starts.
func (a *app) bannerLines() []string {
	lines := []string{a.bot.Greeting()}
	snap := a.monitor.Snapshot()
	if status := snap.StatusLine(); status != "" {
		lines = append(lines, status)
	}
	return lines
}
