// Package bot is the conversation core: it serializes turns, routes each
// one, and keeps the transcript and profile persisted as a side effect.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nexus-ai/nexus/internal/commands"
	"github.com/nexus-ai/nexus/internal/history"
	"github.com/nexus-ai/nexus/internal/logging"
	"github.com/nexus-ai/nexus/internal/profile"
	"github.com/nexus-ai/nexus/internal/router"
	"github.com/nexus-ai/nexus/internal/runtime"
)

// Options wires a Bot. Profile and Router are required; History and
// Commands are optional.
type Options struct {
	Profile  *profile.Store
	Router   *router.Router
	History  *history.Store
	Commands *commands.Handler
}

// Bot applies one turn at a time against the router and persists the
// outcome. Persistence failures are logged, never surfaced as turn errors;
// in-memory state stays authoritative.
type Bot struct {
	mu       sync.Mutex
	profile  *profile.Store
	router   *router.Router
	history  *history.Store
	commands *commands.Handler
}

// New creates a Bot.
func New(opts Options) (*Bot, error) {
	if opts.Profile == nil {
		return nil, errors.New("profile store is required")
	}
	if opts.Router == nil {
		return nil, errors.New("router is required")
	}
	return &Bot{
		profile:  opts.Profile,
		router:   opts.Router,
		history:  opts.History,
		commands: opts.Commands,
	}, nil
}

// Respond processes one turn of user text and returns the reply.
func (b *Bot) Respond(ctx context.Context, text string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	reply := b.router.Respond(ctx, text)

	if b.history != nil {
		if err := b.history.Append(text, reply); err != nil {
			logging.Logger().Warn("failed to record transcript", "err", err)
		}
	}
	if err := b.profile.Save(); err != nil {
		logging.Logger().Warn("failed to save profile", "err", err)
	}
	return reply
}

// HandleMessage implements runtime.Handler. Slash commands are intercepted
// unless a follow-up question is pending, in which case the text is the
// answer and must reach the router untouched.
func (b *Bot) HandleMessage(ctx context.Context, w runtime.ResponseWriter, msg *runtime.Message) error {
	if msg == nil {
		return errors.New("message is required")
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	if b.commands != nil && strings.HasPrefix(text, "/") && !b.router.HasPending() {
		handled, err := b.commands.Handle(ctx, text, w)
		if handled || err != nil {
			return err
		}
	}
	return w.WriteMessage(ctx, b.Respond(ctx, text))
}

// IsGameActive reports whether a mini-game session is in progress.
func (b *Bot) IsGameActive() bool {
	return b.router.GameActive()
}

// SetWebSearchEnabled toggles the web search intents.
func (b *Bot) SetWebSearchEnabled(enabled bool) {
	b.router.SetWebSearchEnabled(enabled)
}

// Greeting is the opening line channels print when a session starts.
func (b *Bot) Greeting() string {
	return fmt.Sprintf("Hello %s! I'm %s, your futuristic AI assistant. How can I help you today?",
		b.profile.UserName(), b.profile.BotName())
}
