package calc

import "testing"

func TestEvalBasicOperations(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2 + 2", 4},
		{"10 / 2", 5},
		{"3 * 4", 12},
		{"7 - 10", -3},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-3 + 5", 2},
		{"--2", 2},
		{"1.5 * 2", 3},
		{"((1))", 1},
	}
	for _, tc := range cases {
		got, err := Eval(tc.expr)
		if err != nil {
			t.Fatalf("Eval(%q): %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvalRejectsInvalidInput(t *testing.T) {
	cases := []string{
		"",
		"banana",
		"2 3",
		"2 +",
		"(2 + 3",
		"2 ** 3",
		"1 / 0",
		"2..5",
		")(",
	}
	for _, expr := range cases {
		if _, err := Eval(expr); err == nil {
			t.Fatalf("Eval(%q): expected error", expr)
		}
	}
}

func TestFormatTrimsIntegers(t *testing.T) {
	if got := Format(4); got != "4" {
		t.Fatalf("Format(4) = %q", got)
	}
	if got := Format(2.5); got != "2.5" {
		t.Fatalf("Format(2.5) = %q", got)
	}
	if got := Format(5.0); got != "5" {
		t.Fatalf("Format(5.0) = %q", got)
	}
}
