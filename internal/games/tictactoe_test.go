package games

import (
	"strings"
	"testing"
)

func boardFrom(s string) [9]byte {
	var b [9]byte
	copy(b[:], s)
	return b
}

func TestTicTacToeRejectsBadMoves(t *testing.T) {
	g := newTicTacToe()

	reply, done := g.Handle("abc")
	if done || !strings.Contains(reply, "between 1 and 9") {
		t.Fatalf("unexpected: %q done=%v", reply, done)
	}
	reply, done = g.Handle("0")
	if done || !strings.Contains(reply, "between 1 and 9") {
		t.Fatalf("unexpected: %q done=%v", reply, done)
	}
	reply, done = g.Handle("10")
	if done || !strings.Contains(reply, "between 1 and 9") {
		t.Fatalf("unexpected: %q done=%v", reply, done)
	}

	g.Handle("1")
	reply, done = g.Handle("1")
	if done || !strings.Contains(reply, "already taken") {
		t.Fatalf("occupied cell: %q done=%v", reply, done)
	}
}

func TestTicTacToeRejectedMoveDoesNotMutateBoard(t *testing.T) {
	g := newTicTacToe()
	g.Handle("1")
	before := g.board

	g.Handle("1")
	if g.board != before {
		t.Fatal("rejected move mutated the board")
	}
}

func TestTicTacToeBotTakesCenterFirst(t *testing.T) {
	g := newTicTacToe()
	g.Handle("1")
	if g.board[4] != botMark {
		t.Fatalf("expected bot to take the center, board=%q", g.board[:])
	}
}

func TestTicTacToeBotBlocksImmediateThreat(t *testing.T) {
	g := newTicTacToe()
	g.Handle("1") // X at 1, bot takes center
	g.Handle("3") // X at 1 and 3 threatens cell 2

	if g.board[1] != botMark {
		t.Fatalf("expected bot to block cell 2, board=%q", g.board[:])
	}
}

func TestTicTacToeBotPrefersWinOverBlock(t *testing.T) {
	g := newTicTacToe()
	// Bot has two in the top row and the player threatens the bottom row.
	g.board = boardFrom("OO  X XX ")

	g.botMove()
	if g.board[2] != botMark {
		t.Fatalf("expected bot to complete its own line at cell 3, board=%q", g.board[:])
	}
}

func TestTicTacToeDraw(t *testing.T) {
	g := newTicTacToe()
	g.board = boardFrom("XXOOOXXO ")

	reply, done := g.Handle("9")
	if !done {
		t.Fatal("filling the last cell without a line must end the game")
	}
	if !strings.Contains(reply, "draw") {
		t.Fatalf("expected a draw response, got %q", reply)
	}
}

func TestTicTacToePlayerWin(t *testing.T) {
	g := newTicTacToe()
	g.board = boardFrom("XX OO    ")

	reply, done := g.Handle("3")
	if !done || !strings.Contains(reply, "You won") {
		t.Fatalf("unexpected: %q done=%v", reply, done)
	}
}

func TestTicTacToeRender(t *testing.T) {
	g := newTicTacToe()
	g.board = boardFrom("XO       ")

	rendered := g.render()
	lines := strings.Split(rendered, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rendered lines, got %d: %q", len(lines), rendered)
	}
	if lines[0] != "X | O |  " {
		t.Fatalf("unexpected first row: %q", lines[0])
	}
	if lines[1] != "---------" {
		t.Fatalf("unexpected separator: %q", lines[1])
	}
}
