package games

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

const hangmanMaxIncorrect = 6

var hangmanWords = []string{
	"python", "javascript", "computer", "algorithm", "programming",
	"developer", "artificial", "intelligence", "machine", "learning",
}

// hangman tracks the target word, the per-position reveal mask, used
// letters, and the incorrect-guess budget.
type hangman struct {
	word      string
	revealed  []byte
	used      map[rune]bool
	incorrect int
}

func newHangman(rng *rand.Rand) *hangman {
	return newHangmanWord(hangmanWords[rng.Intn(len(hangmanWords))])
}

func newHangmanWord(word string) *hangman {
	g := &hangman{
		word: word,
		used: make(map[rune]bool),
	}
	g.revealed = make([]byte, len(word))
	for i := range g.revealed {
		g.revealed[i] = '_'
	}
	return g
}

func (g *hangman) Intro() string {
	return fmt.Sprintf("Let's play Hangman! The word has %d letters: %s. Guess a letter!", len(g.word), g.mask())
}

func (g *hangman) Handle(text string) (string, bool) {
	input := []rune(strings.TrimSpace(text))
	if len(input) != 1 || !unicode.IsLetter(input[0]) {
		return "Please guess a single letter.", false
	}

	letter := unicode.ToLower(input[0])
	if g.used[letter] {
		return "You've already guessed that letter. Try another one.", false
	}
	g.used[letter] = true

	found := false
	for i, c := range g.word {
		if c == letter {
			g.revealed[i] = byte(letter)
			found = true
		}
	}

	if found {
		if !strings.Contains(string(g.revealed), "_") {
			return fmt.Sprintf("Congratulations! You guessed the word: %s", g.word), true
		}
		return fmt.Sprintf("Correct! The word now looks like: %s. Incorrect guesses: %d/%d",
			g.mask(), g.incorrect, hangmanMaxIncorrect), false
	}

	g.incorrect++
	if g.incorrect >= hangmanMaxIncorrect {
		return fmt.Sprintf("Game over! The word was: %s", g.word), true
	}
	remaining := hangmanMaxIncorrect - g.incorrect
	return fmt.Sprintf("Incorrect! You have %d guesses left. Word: %s", remaining, g.mask()), false
}

func (g *hangman) mask() string {
	parts := make([]string, len(g.revealed))
	for i, c := range g.revealed {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
