package games

import (
	"math/rand"
	"strings"
	"testing"
)

func newTestEngine() *Engine {
	return NewWithRand(rand.New(rand.NewSource(1)))
}

func TestStartUnknownGame(t *testing.T) {
	e := newTestEngine()
	reply := e.Start("chess")
	if reply != unknownGameReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if e.Active() {
		t.Fatal("unknown game must not activate a session")
	}
}

func TestStartEmptyNameAsksForGame(t *testing.T) {
	e := newTestEngine()
	if reply := e.Start(""); reply != chooseGameReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestStartWhileActiveRejectedAndStateKept(t *testing.T) {
	e := newTestEngine()
	e.Start("guess the number")
	e.current.(*numberGuess).secret = 50

	if reply := e.Start("hangman"); reply != alreadyPlayingReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
	game, ok := e.current.(*numberGuess)
	if !ok || game.secret != 50 {
		t.Fatal("existing session must be left untouched")
	}
}

func TestQuitPhrasesAlwaysHonored(t *testing.T) {
	for _, phrase := range []string{"quit game", "stop game", "please STOP GAME now"} {
		e := newTestEngine()
		e.Start("hangman")
		if reply := e.HandleTurn(phrase); reply != quitReply {
			t.Fatalf("HandleTurn(%q) = %q", phrase, reply)
		}
		if e.Active() {
			t.Fatalf("session still active after %q", phrase)
		}
	}
}

func TestHandleTurnWithoutSession(t *testing.T) {
	e := newTestEngine()
	if reply := e.HandleTurn("5"); reply != noGameReply {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestStartNameVariants(t *testing.T) {
	cases := map[string]string{
		"guess the number": "number between 1 and 100",
		"number":           "number between 1 and 100",
		"tic tac toe":      "Tic Tac Toe",
		"tictactoe":        "Tic Tac Toe",
		"hangman":          "Hangman",
	}
	for name, want := range cases {
		e := newTestEngine()
		reply := e.Start(name)
		if !strings.Contains(reply, want) {
			t.Fatalf("Start(%q) = %q, want mention of %q", name, reply, want)
		}
		if !e.Active() {
			t.Fatalf("Start(%q) did not activate a session", name)
		}
	}
}
