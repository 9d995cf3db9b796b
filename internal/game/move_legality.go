package game

// LegalMoves narrows pc's pseudo-legal moves to those that leave its own
// king safe. Kings also get their castling destinations.
func (b *Board) LegalMoves(pc *Piece) []Square {
	if pc == nil || b.grid.PieceAt(pc.Square) != pc {
		return nil
	}

	from := pc.Square
	var moves []Square
	for _, to := range b.pseudoLegalMoves(pc) {
		if !b.InCheckAfter(pc.Color, from, to) {
			moves = append(moves, to)
		}
	}

	if pc.Type == King {
		for _, side := range b.CanCastle(pc) {
			dest, ok := b.castleDestination(pc, side)
			if !ok {
				continue
			}
			if !b.InCheckAfter(pc.Color, from, dest) {
				moves = append(moves, dest)
			}
		}
	}
	return moves
}

// IsLegal reports whether to is among pc's legal destinations.
func (b *Board) IsLegal(pc *Piece, to Square) bool {
	set := squareSetOf(b.LegalMoves(pc))
	return set.Has(to)
}

// CanCastle lists the sides on which king may castle: the king and that
// side's rook are unmoved and every cell between them is empty. Whether the
// king is in check or crosses an attacked cell is not considered here.
func (b *Board) CanCastle(king *Piece) []CastlingSide {
	if king == nil || king.Type != King || king.HasMoved {
		return nil
	}

	var sides []CastlingSide
	for _, side := range []CastlingSide{CastleQueenside, CastleKingside} {
		rook := b.grid.PieceAt(b.castleRookHome(king, side))
		if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		empty := true
		for _, sq := range between(king.Square, rook.Square) {
			if b.grid.PieceAt(sq) != nil {
				empty = false
				break
			}
		}
		if empty {
			sides = append(sides, side)
		}
	}
	return sides
}

func (b *Board) castleRookHome(king *Piece, side CastlingSide) Square {
	if side == CastleKingside {
		return Square{X: b.grid.size - 1, Y: king.Square.Y}
	}
	return Square{X: 0, Y: king.Square.Y}
}

func (b *Board) castleDestination(king *Piece, side CastlingSide) (Square, bool) {
	dx := -2
	if side == CastleKingside {
		dx = 2
	}
	dest := king.Square.Add(dx, 0)
	if !b.grid.InBounds(dest) {
		return Square{}, false
	}
	return dest, true
}

func isCastle(pc *Piece, from, to Square) bool {
	return pc != nil && pc.Type == King && from.Y == to.Y && absInt(to.X-from.X) == 2
}
