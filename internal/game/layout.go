package game

import (
	"fmt"
	"strings"
)

// Layout is a starting position listed row by row from the black back rank.
// Each entry is empty (or ".") or a color letter followed by a piece
// letter, e.g. "wK" or "bP". ParseLayout also reads "-" as an empty cell.
type Layout [][]string

var standardLayouts = map[int]Layout{
	8: {
		{"bR", "bN", "bB", "bQ", "bK", "bB", "bN", "bR"},
		{"bP", "bP", "bP", "bP", "bP", "bP", "bP", "bP"},
		{"", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", ""},
		{"wP", "wP", "wP", "wP", "wP", "wP", "wP", "wP"},
		{"wR", "wN", "wB", "wQ", "wK", "wB", "wN", "wR"},
	},
	10: {
		{"bR", "bN", "bB", "bW", "bQ", "bK", "bW", "bB", "bN", "bR"},
		{"bP", "bP", "bP", "bP", "bP", "bP", "bP", "bP", "bP", "bP"},
		{"", "", "", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"wP", "wP", "wP", "wP", "wP", "wP", "wP", "wP", "wP", "wP"},
		{"wR", "wN", "wB", "wW", "wQ", "wK", "wW", "wB", "wN", "wR"},
	},
}

// StandardLayout returns a copy of the built-in starting layout for size.
func StandardLayout(size int) (Layout, error) {
	l, ok := standardLayouts[size]
	if !ok {
		return nil, fmt.Errorf("%w: no standard layout for a %dx%d board", ErrInvalidConfig, size, size)
	}
	return l.clone(), nil
}

// StandardSizes lists the sizes with a built-in layout.
func StandardSizes() []int { return []int{8, 10} }

// ParseLayout reads rows separated by newlines or '/', with entries
// separated by whitespace. Blank lines are skipped. Empty cells are written
// "." or "-".
func ParseLayout(s string) (Layout, error) {
	s = strings.ReplaceAll(s, "/", "\n")
	var out Layout
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]string, len(fields))
		for i, f := range fields {
			if f == "." || f == "-" {
				continue
			}
			if _, _, err := parseLayoutEntry(f); err != nil {
				return nil, err
			}
			row[i] = f
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidConfig)
	}
	return out, nil
}

func (l Layout) String() string {
	var b strings.Builder
	for y, row := range l {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, entry := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			if entry == "" {
				entry = "."
			}
			b.WriteString(entry)
		}
	}
	return b.String()
}

func (l Layout) clone() Layout {
	out := make(Layout, len(l))
	for i, row := range l {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func parseLayoutEntry(entry string) (Color, PieceType, error) {
	if len(entry) != 2 {
		return White, Pawn, fmt.Errorf("%w: bad layout entry %q", ErrInvalidConfig, entry)
	}
	var color Color
	switch entry[0] {
	case 'w':
		color = White
	case 'b':
		color = Black
	default:
		return White, Pawn, fmt.Errorf("%w: bad color in layout entry %q", ErrInvalidConfig, entry)
	}
	pt, ok := ParsePieceType(entry[1])
	if !ok {
		return White, Pawn, fmt.Errorf("%w: bad piece in layout entry %q", ErrInvalidConfig, entry)
	}
	return color, pt, nil
}

// validate checks the layout fits size and holds exactly one king per color.
func (l Layout) validate(size int) error {
	if len(l) != size {
		return fmt.Errorf("%w: layout has %d rows, want %d", ErrInvalidConfig, len(l), size)
	}
	var kings [2]int
	for y, row := range l {
		if len(row) != size {
			return fmt.Errorf("%w: layout row %d has %d entries, want %d", ErrInvalidConfig, y, len(row), size)
		}
		for _, entry := range row {
			if entry == "" || entry == "." {
				continue
			}
			color, pt, err := parseLayoutEntry(entry)
			if err != nil {
				return err
			}
			if pt == King {
				kings[color.Index()]++
			}
		}
	}
	for _, color := range []Color{White, Black} {
		if n := kings[color.Index()]; n != 1 {
			return fmt.Errorf("%w: layout has %d %s kings, want 1", ErrInvalidConfig, n, color)
		}
	}
	return nil
}

// Layout renders the current position in the form NewBoard accepts. Moved
// flags and en passant state are not part of it.
func (b *Board) Layout() Layout {
	out := make(Layout, b.grid.size)
	for y := range out {
		out[y] = make([]string, b.grid.size)
		for x := range out[y] {
			if pc := b.grid.cells[y][x].occupant; pc != nil {
				out[y][x] = string([]byte{pc.Color.letter(), pc.Type.String()[0]})
			}
		}
	}
	return out
}
