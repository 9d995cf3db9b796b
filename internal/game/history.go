package game

// MoveRecord describes one committed half-move.
type MoveRecord struct {
	Number    int
	Color     Color
	Piece     PieceType
	From      Square
	To        Square
	Captured  *PieceType
	Promotion *PieceType
	Castle    *CastlingSide
	EnPassant bool
	Notation  string
}

func (r MoveRecord) IsCapture() bool { return r.Captured != nil }

// UCI renders the record as long algebraic coordinates, "e2e4" or "a7a8q".
func (r MoveRecord) UCI(size int) string {
	s := r.From.Coord(size) + r.To.Coord(size)
	if r.Promotion != nil {
		s += string(lowerSymbol(*r.Promotion))
	}
	return s
}

func lowerSymbol(pt PieceType) byte {
	c := pt.Symbol()
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func pieceTypePtr(pt PieceType) *PieceType { return &pt }

// MoveHistory returns the notation of every committed half-move in order.
func (b *Board) MoveHistory() []string {
	return append([]string(nil), b.history...)
}

// Records returns the committed half-moves in order.
func (b *Board) Records() []MoveRecord {
	return append([]MoveRecord(nil), b.records...)
}

func (b *Board) MoveCount() int { return b.moveCount }

func (b *Board) recordMove(rec MoveRecord) {
	b.moveCount++
	rec.Number = b.moveCount
	b.history = append(b.history, rec.Notation)
	b.records = append(b.records, rec)
}
