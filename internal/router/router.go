// Package router turns one turn of user text into a reply. Matching is an
// ordered cascade of literal predicates over the lowercased input; the first
// match wins. A pending follow-up question always consumes the next turn
// before any matching, and an active game session receives every turn that no
// intent claimed.
package router

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/nexus-ai/nexus/internal/capability"
	"github.com/nexus-ai/nexus/internal/games"
	"github.com/nexus-ai/nexus/internal/profile"
)

// intent is one entry of the dispatch table. match sees the lowercased,
// trimmed text; handle additionally receives the original text so handlers
// can extract arguments with their casing intact.
type intent struct {
	name   string
	match  func(n string) bool
	handle func(ctx context.Context, raw, n string) string
}

// Options configures a Router. Profile and System are required; the rest
// default to sensible production values.
type Options struct {
	Profile *profile.Store
	Games   *games.Engine
	System  capability.System
	Search  capability.Searcher
	Now     func() time.Time
	Rand    *rand.Rand
}

// Router resolves user turns against the intent table. State mutations
// happen one turn at a time; callers serialize turns.
type Router struct {
	profile *profile.Store
	games   *games.Engine
	system  capability.System
	search  capability.Searcher
	now     func() time.Time
	rng     *rand.Rand

	webSearch atomic.Bool
	pending   *pendingQuestion

	intents []intent
}

// New builds a Router and its intent table.
func New(opts Options) *Router {
	r := &Router{
		profile: opts.Profile,
		games:   opts.Games,
		system:  opts.System,
		search:  opts.Search,
		now:     opts.Now,
		rng:     opts.Rand,
	}
	if r.games == nil {
		r.games = games.New()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r.intents = r.intentList()
	return r
}

// Respond processes one turn and always returns a reply.
func (r *Router) Respond(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)

	if r.pending != nil {
		return r.consumePending(text)
	}

	n := strings.ToLower(text)
	for _, it := range r.intents {
		if it.match(n) {
			return it.handle(ctx, text, n)
		}
	}

	if r.games.Active() {
		return r.games.HandleTurn(text)
	}
	return r.fallback(text)
}

// GameActive reports whether a game session is in progress.
func (r *Router) GameActive() bool {
	return r.games.Active()
}

// SetWebSearchEnabled toggles the web search intents.
func (r *Router) SetWebSearchEnabled(enabled bool) {
	r.webSearch.Store(enabled)
}

// WebSearchEnabled reports the current toggle state.
func (r *Router) WebSearchEnabled() bool {
	return r.webSearch.Load()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasWord reports whether word appears as a whole word, so "hi" does not
// fire on "this".
func hasWord(s, word string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if field == word {
			return true
		}
	}
	return false
}

// afterFirst returns the text following the first occurrence of marker. The
// marker is matched case-insensitively so extraction keeps original casing.
func afterFirst(raw, marker string) string {
	idx := strings.Index(strings.ToLower(raw), marker)
	if idx < 0 {
		return ""
	}
	return raw[idx+len(marker):]
}

// cutSentence truncates at the first sentence terminator and trims.
func cutSentence(s string) string {
	if idx := strings.IndexAny(s, ".?!"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func parsePercent(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return clampPercent(v), nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
