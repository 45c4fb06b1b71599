// Package commands provides channel-agnostic slash command handling.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nexus-ai/nexus/internal/history"
	"github.com/nexus-ai/nexus/internal/profile"
	"github.com/nexus-ai/nexus/internal/runtime"
)

const helpText = "Commands: /help, /new, /profile, /recent, /search [on|off]"

// SearchToggler flips the web search intents on or off.
type SearchToggler interface {
	SetWebSearchEnabled(enabled bool)
	WebSearchEnabled() bool
}

// Handler dispatches supported slash commands.
type Handler struct {
	profile *profile.Store
	history *history.Store
	search  SearchToggler
}

// New creates a slash command handler. Any dependency may be nil; its
// commands then report as unavailable.
func New(profileStore *profile.Store, historyStore *history.Store, search SearchToggler) *Handler {
	return &Handler{profile: profileStore, history: historyStore, search: search}
}

// Handle executes one command and reports whether it was handled.
func (h *Handler) Handle(ctx context.Context, cmd string, w runtime.ResponseWriter) (handled bool, err error) {
	if w == nil {
		return false, errors.New("response writer is required")
	}

	fields := strings.Fields(strings.ToLower(strings.TrimSpace(cmd)))
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "/help", "/commands":
		return true, w.WriteMessage(ctx, helpText)
	case "/new", "/reset":
		return true, h.handleNew(ctx, w)
	case "/profile":
		return true, h.handleProfile(ctx, w)
	case "/recent":
		return true, h.handleRecent(ctx, w)
	case "/search":
		return true, h.handleSearch(ctx, fields[1:], w)
	default:
		return false, nil
	}
}

func (h *Handler) handleNew(ctx context.Context, w runtime.ResponseWriter) error {
	if h.history == nil {
		return errors.New("history is unavailable")
	}
	h.history.Reset()
	return w.WriteMessage(ctx, "Started a new conversation.")
}

func (h *Handler) handleProfile(ctx context.Context, w runtime.ResponseWriter) error {
	if h.profile == nil {
		return errors.New("profile is unavailable")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\n", h.profile.UserName())
	fmt.Fprintf(&b, "Bot: %s\n", h.profile.BotName())
	fmt.Fprintf(&b, "Volume: %d%%, Brightness: %d%%", h.profile.Volume(), h.profile.Brightness())

	for _, category := range h.profile.Categories() {
		fields := h.profile.Fields(category)
		if len(fields) == 0 {
			continue
		}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(&b, "\n%s:", category)
		for _, name := range names {
			fmt.Fprintf(&b, "\n  %s: %s", strings.ReplaceAll(name, "_", " "), fields[name].String())
		}
	}
	return w.WriteMessage(ctx, b.String())
}

func (h *Handler) handleRecent(ctx context.Context, w runtime.ResponseWriter) error {
	if h.history == nil {
		return errors.New("history is unavailable")
	}
	recents, err := h.history.RecentChats()
	if err != nil {
		return err
	}
	if len(recents) == 0 {
		return w.WriteMessage(ctx, "No recent chats.")
	}

	var b strings.Builder
	b.WriteString("Recent chats:")
	for i := len(recents) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n%s - %s", recents[i].Date, recents[i].Name)
	}
	return w.WriteMessage(ctx, b.String())
}

func (h *Handler) handleSearch(ctx context.Context, args []string, w runtime.ResponseWriter) error {
	if h.search == nil {
		return errors.New("web search is unavailable")
	}

	state := func() string {
		if h.search.WebSearchEnabled() {
			return "on"
		}
		return "off"
	}

	if len(args) == 0 {
		return w.WriteMessage(ctx, fmt.Sprintf("Web search is %s.", state()))
	}
	switch args[0] {
	case "on":
		h.search.SetWebSearchEnabled(true)
	case "off":
		h.search.SetWebSearchEnabled(false)
	default:
		return w.WriteMessage(ctx, "Usage: /search [on|off]")
	}
	return w.WriteMessage(ctx, fmt.Sprintf("Web search is %s.", state()))
}
