// Package games runs the embedded turn-based mini-games: number guessing,
// tic tac toe, and hangman. At most one session is active at a time.
package games

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	alreadyPlayingReply = "We're already playing a game! Say 'quit game' to stop."
	unknownGameReply    = "I don't know that game. I can play: guess the number, tic tac toe, or hangman."
	chooseGameReply     = "Which game would you like to play? I know: guess the number, tic tac toe, hangman"
	quitReply           = "Game ended. Let me know if you want to play again!"
	noGameReply         = "No active game. Say 'play game' to start one."
)

// session is one in-progress game. Handle consumes a turn of input and
// reports whether the session finished on that turn.
type session interface {
	Handle(text string) (reply string, done bool)
}

// Engine supervises the single active game session.
type Engine struct {
	mu      sync.Mutex
	rng     *rand.Rand
	current session
}

// New creates an Engine with a time-seeded random source.
func New() *Engine {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates an Engine with a caller-supplied random source.
func NewWithRand(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Active reports whether a game session is in progress.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// Start begins a new session for the named game. Starting while a session is
// active is rejected without touching the existing session.
func (e *Engine) Start(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		return alreadyPlayingReply
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return chooseGameReply
	}

	switch {
	case strings.Contains(name, "number") || strings.Contains(name, "guess"):
		game := newNumberGuess(e.rng)
		e.current = game
		return game.Intro()
	case strings.Contains(name, "tic tac toe") || strings.Contains(name, "tictactoe"):
		game := newTicTacToe()
		e.current = game
		return game.Intro()
	case strings.Contains(name, "hangman"):
		game := newHangman(e.rng)
		e.current = game
		return game.Intro()
	default:
		return unknownGameReply
	}
}

// HandleTurn routes one turn of input to the active session. The quit
// phrases are honored before any game sees the input.
func (e *Engine) HandleTurn(text string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return noGameReply
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "quit game") || strings.Contains(lower, "stop game") {
		e.current = nil
		return quitReply
	}

	reply, done := e.current.Handle(text)
	if done {
		e.current = nil
	}
	return reply
}

// Quit abandons the active session, if any.
func (e *Engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = nil
}
