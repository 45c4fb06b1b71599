package games

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// numberGuess is the guess-the-number session: a secret in [1,100] and an
// attempt counter.
type numberGuess struct {
	secret   int
	attempts int
}

func newNumberGuess(rng *rand.Rand) *numberGuess {
	return &numberGuess{secret: rng.Intn(100) + 1}
}

func (g *numberGuess) Intro() string {
	return "I'm thinking of a number between 1 and 100. Can you guess what it is?"
}

func (g *numberGuess) Handle(text string) (string, bool) {
	guess, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return "Please enter a valid number between 1 and 100.", false
	}

	g.attempts++
	switch {
	case guess < g.secret:
		return "Too low! Try a higher number.", false
	case guess > g.secret:
		return "Too high! Try a lower number.", false
	default:
		return fmt.Sprintf("Congratulations! You guessed the number in %d attempts.", g.attempts), true
	}
}
