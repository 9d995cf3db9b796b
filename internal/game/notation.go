package game

// Notate renders the move from->to in short algebraic style. It must be
// called before the move is applied. Castling is "O-O" or "O-O-O", pawns
// write the destination (prefixed by "<file>x" when capturing) and other
// pieces their symbol and destination. Same-type moves are not
// disambiguated.
func (b *Board) Notate(from, to Square) string {
	src, dst := b.grid.Cell(from), b.grid.Cell(to)
	if src == nil || dst == nil || src.occupant == nil {
		return ""
	}
	pc := src.occupant
	size := b.grid.size

	switch {
	case isCastle(pc, from, to):
		if to.X > from.X {
			return "O-O"
		}
		return "O-O-O"
	case pc.Type == Pawn:
		if from.X != to.X {
			return string(files[from.X]) + "x" + to.Coord(size)
		}
		return to.Coord(size)
	default:
		return string(pc.Type.Symbol()) + to.Coord(size)
	}
}
