package games

import (
	"strconv"
	"strings"
)

const (
	emptyCell  = ' '
	playerMark = 'X'
	botMark    = 'O'
)

// ticTacToe is a 3x3 board played against a fixed greedy bot heuristic.
type ticTacToe struct {
	board [9]byte
}

func newTicTacToe() *ticTacToe {
	g := &ticTacToe{}
	for i := range g.board {
		g.board[i] = emptyCell
	}
	return g
}

func (g *ticTacToe) Intro() string {
	return "Let's play Tic Tac Toe! You're X and I'm O. The board is numbered 1-9 left to right, top to bottom. Say a number to make your move."
}

func (g *ticTacToe) Handle(text string) (string, bool) {
	pos, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return "Please enter a number between 1 and 9 to make your move.", false
	}
	pos--
	if pos < 0 || pos > 8 {
		return "Please enter a number between 1 and 9.", false
	}
	if g.board[pos] != emptyCell {
		return "That position is already taken! Try another one.", false
	}

	g.board[pos] = playerMark
	if g.wins(playerMark) {
		return "Congratulations! You won! Here's the final board:\n" + g.render(), true
	}
	if g.full() {
		return "It's a draw! Here's the final board:\n" + g.render(), true
	}

	g.botMove()
	if g.wins(botMark) {
		return "I won! Better luck next time. Here's the final board:\n" + g.render(), true
	}
	if g.full() {
		return "It's a draw! Here's the final board:\n" + g.render(), true
	}

	return "Your move:\n" + g.render(), false
}

// botMove applies the fixed greedy heuristic: complete a winning line, block
// the player's winning line, take the center, take a corner, take anything.
func (g *ticTacToe) botMove() {
	for i := range g.board {
		if g.board[i] != emptyCell {
			continue
		}
		g.board[i] = botMark
		if g.wins(botMark) {
			return
		}
		g.board[i] = emptyCell
	}

	for i := range g.board {
		if g.board[i] != emptyCell {
			continue
		}
		g.board[i] = playerMark
		if g.wins(playerMark) {
			g.board[i] = botMark
			return
		}
		g.board[i] = emptyCell
	}

	if g.board[4] == emptyCell {
		g.board[4] = botMark
		return
	}

	for _, corner := range [4]int{0, 2, 6, 8} {
		if g.board[corner] == emptyCell {
			g.board[corner] = botMark
			return
		}
	}

	for i := range g.board {
		if g.board[i] == emptyCell {
			g.board[i] = botMark
			return
		}
	}
}

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func (g *ticTacToe) wins(mark byte) bool {
	for _, line := range winningLines {
		if g.board[line[0]] == mark && g.board[line[1]] == mark && g.board[line[2]] == mark {
			return true
		}
	}
	return false
}

func (g *ticTacToe) full() bool {
	for _, cell := range g.board {
		if cell == emptyCell {
			return false
		}
	}
	return true
}

func (g *ticTacToe) render() string {
	var b strings.Builder
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = string(g.board[row*3+col])
		}
		b.WriteString(strings.Join(cells, " | "))
		if row < 2 {
			b.WriteString("\n")
			b.WriteString(strings.Repeat("-", 9))
			b.WriteString("\n")
		}
	}
	return b.String()
}
