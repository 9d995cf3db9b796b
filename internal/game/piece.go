package game

// Piece is a single piece on the board. Its identity survives moves; only
// promotion replaces it.
type Piece struct {
	ID       int
	Color    Color
	Type     PieceType
	Square   Square
	HasMoved bool

	// EnPassant is set on a pawn that just advanced two cells and cleared
	// once its owner moves again.
	EnPassant bool
}

func (pc *Piece) String() string {
	if pc == nil {
		return "<nil>"
	}
	return pc.Color.String() + " " + pc.Type.Name()
}

func (pc *Piece) isEnemy(other *Piece) bool {
	return other != nil && other.Color != pc.Color
}

// forward is the row delta a pawn of the color advances by.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// promotionRow is the far row for pawns of the color.
func promotionRow(c Color, size int) int {
	if c == White {
		return 0
	}
	return size - 1
}
