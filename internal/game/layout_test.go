package game

import (
	"errors"
	"testing"
)

func TestParseLayout(t *testing.T) {
	layout, err := ParseLayout("bK . . . . . . ./8/8/8/8/8/8/. . . . . . . wK")
	if err == nil {
		t.Fatalf("expected '8' to be rejected as an entry, got %v", layout)
	}

	layout, err = ParseLayout(`
		bK . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . wQ - . wK
	`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(layout) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(layout))
	}
	if layout[7][4] != "wQ" || layout[7][5] != "" || layout[0][0] != "bK" {
		t.Fatalf("unexpected entries: %q", layout[7])
	}

	b, err := NewBoard(8, layout)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if pc := b.PieceAt(square(t, b, "e1")); pc == nil || pc.Type != Queen {
		t.Fatalf("expected a queen on e1, got %v", pc)
	}

	round, err := ParseLayout(layout.String())
	if err != nil {
		t.Fatalf("parse rendered layout: %v", err)
	}
	if round.String() != layout.String() {
		t.Fatalf("layout did not round trip:\n%s\n%s", round, layout)
	}
}

func TestParseLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Empty", input: "  \n \n"},
		{name: "BadColor", input: "xK . ."},
		{name: "BadPiece", input: "wZ . ."},
		{name: "TooLong", input: "wKK . ."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLayout(tt.input); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLayoutValidation(t *testing.T) {
	standard, err := StandardLayout(8)
	if err != nil {
		t.Fatalf("standard layout: %v", err)
	}

	shortRow := standard.clone()
	shortRow[3] = shortRow[3][:7]
	if err := shortRow.validate(8); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected short row to fail, got %v", err)
	}

	missingKing := standard.clone()
	missingKing[0][4] = ""
	if err := missingKing.validate(8); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected missing king to fail, got %v", err)
	}

	if err := standard.validate(8); err != nil {
		t.Fatalf("standard layout must validate: %v", err)
	}
}

func TestStandardLayoutIsACopy(t *testing.T) {
	first, err := StandardLayout(8)
	if err != nil {
		t.Fatalf("standard layout: %v", err)
	}
	first[0][0] = "wK"

	second, err := StandardLayout(8)
	if err != nil {
		t.Fatalf("standard layout: %v", err)
	}
	if second[0][0] != "bR" {
		t.Fatalf("built-in layout was mutated: %q", second[0][0])
	}

	for _, size := range StandardSizes() {
		if _, err := NewStandardBoard(size); err != nil {
			t.Fatalf("standard %dx%d board: %v", size, size, err)
		}
	}
}

func TestCustomBoardSize(t *testing.T) {
	rows := make([]string, 12)
	for i := range rows {
		rows[i] = ". . . . . . . . . . . ."
	}
	rows[0] = "bK . . . . . . . . . . ."
	rows[11] = ". . . . . . . . . . . wK"
	b := newFromLayout(t, 12, rows...)

	if b.Size() != 12 {
		t.Fatalf("expected a 12x12 board, got %d", b.Size())
	}
	if pc := b.PieceAt(square(t, b, "a12")); pc == nil || pc.Type != King || pc.Color != Black {
		t.Fatalf("expected black king on a12, got %v", pc)
	}
	if pc := b.PieceAt(square(t, b, "l1")); pc == nil || pc.Type != King || pc.Color != White {
		t.Fatalf("expected white king on l1, got %v", pc)
	}
	if got := legalMoveCount(b, White); got != 3 {
		t.Fatalf("expected 3 king moves, got %d", got)
	}
}

func TestBoardLayoutRoundTrip(t *testing.T) {
	b := newStandard(t, 10)
	play(t, b, "e2e4", "d9d7", "d1h5")

	layout := b.Layout()
	if layout[9][3] != "" || layout[5][7] != "wW" || layout[3][3] != "bP" {
		t.Fatalf("unexpected layout:\n%s", layout)
	}

	copied, err := NewBoard(10, layout)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if copied.Layout().String() != layout.String() {
		t.Fatalf("layout changed on rebuild:\n%s\n%s", copied.Layout(), layout)
	}
}
