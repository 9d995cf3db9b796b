package game

// Shade is the display color of a cell.
type Shade uint8

const (
	Light Shade = iota
	Dark
)

func (s Shade) String() string {
	if s == Light {
		return "light"
	}
	return "dark"
}

// Cell is one grid position holding at most one piece.
type Cell struct {
	square   Square
	occupant *Piece
}

func (c *Cell) Square() Square { return c.square }

func (c *Cell) Shade() Shade {
	if (c.square.X+c.square.Y)%2 == 0 {
		return Light
	}
	return Dark
}

func (c *Cell) Occupant() *Piece { return c.occupant }

func (c *Cell) Empty() bool { return c.occupant == nil }

// place puts pc on the cell and keeps the piece's square in sync.
func (c *Cell) place(pc *Piece) {
	c.occupant = pc
	if pc != nil {
		pc.Square = c.square
	}
}

func (c *Cell) clear() { c.occupant = nil }

// Grid is a fixed size x size array of cells indexed as cells[y][x].
type Grid struct {
	size  int
	cells [][]Cell
}

func newGrid(size int) *Grid {
	g := &Grid{size: size, cells: make([][]Cell, size)}
	for y := range g.cells {
		g.cells[y] = make([]Cell, size)
		for x := range g.cells[y] {
			g.cells[y][x].square = Square{X: x, Y: y}
		}
	}
	return g
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) InBounds(sq Square) bool {
	return sq.X >= 0 && sq.X < g.size && sq.Y >= 0 && sq.Y < g.size
}

// Cell returns nil for squares off the grid.
func (g *Grid) Cell(sq Square) *Cell {
	if !g.InBounds(sq) {
		return nil
	}
	return &g.cells[sq.Y][sq.X]
}

func (g *Grid) PieceAt(sq Square) *Piece {
	if c := g.Cell(sq); c != nil {
		return c.occupant
	}
	return nil
}

// Pieces lists the pieces of one color in row-major order from the black
// back rank.
func (g *Grid) Pieces(color Color) []*Piece {
	var out []*Piece
	g.each(func(c *Cell) {
		if c.occupant != nil && c.occupant.Color == color {
			out = append(out, c.occupant)
		}
	})
	return out
}

func (g *Grid) each(fn func(*Cell)) {
	for y := range g.cells {
		for x := range g.cells[y] {
			fn(&g.cells[y][x])
		}
	}
}

func (g *Grid) findKing(color Color) *Piece {
	var king *Piece
	g.each(func(c *Cell) {
		if king == nil && c.occupant != nil && c.occupant.Color == color && c.occupant.Type == King {
			king = c.occupant
		}
	})
	return king
}
