package game

// pseudoLegalMoves lists pc's destinations under occupancy rules without
// regard to the safety of its own king.
func (b *Board) pseudoLegalMoves(pc *Piece) []Square {
	if pc == nil {
		return nil
	}
	if pc.Type == Pawn {
		moves := b.pawnPushes(pc)
		return append(moves, b.pawnCaptures(pc)...)
	}
	return b.walkRays(pc, rays(pc, b.grid.size))
}

// attackedSquares is pseudoLegalMoves restricted to squares the piece
// threatens. Pawns threaten only their diagonal captures.
func (b *Board) attackedSquares(pc *Piece) []Square {
	if pc == nil {
		return nil
	}
	if pc.Type == Pawn {
		return b.pawnCaptures(pc)
	}
	return b.walkRays(pc, rays(pc, b.grid.size))
}

func (b *Board) walkRays(pc *Piece, candidates [][]Square) []Square {
	var moves []Square
	for _, ray := range candidates {
		for _, sq := range ray {
			occupant := b.grid.PieceAt(sq)
			if occupant == nil {
				moves = append(moves, sq)
				continue
			}
			if pc.isEnemy(occupant) {
				moves = append(moves, sq)
			}
			break
		}
	}
	return moves
}

func (b *Board) pawnPushes(pc *Piece) []Square {
	var moves []Square
	for _, ray := range pawnPushRays(pc, b.grid.size) {
		for _, sq := range ray {
			if b.grid.PieceAt(sq) != nil {
				break
			}
			moves = append(moves, sq)
		}
	}
	return moves
}

func (b *Board) pawnCaptures(pc *Piece) []Square {
	var moves []Square
	dir := forward(pc.Color)
	for _, dx := range []int{1, -1} {
		target := pc.Square.Add(dx, dir)
		if !b.grid.InBounds(target) {
			continue
		}
		if pc.isEnemy(b.grid.PieceAt(target)) || b.enPassantVictim(pc, dx) != nil {
			moves = append(moves, target)
		}
	}
	return moves
}

// enPassantVictim returns the enemy pawn beside pc, dx files away, that may
// be taken en passant.
func (b *Board) enPassantVictim(pc *Piece, dx int) *Piece {
	victim := b.grid.PieceAt(pc.Square.Add(dx, 0))
	if victim == nil || victim.Type != Pawn || !pc.isEnemy(victim) || !victim.EnPassant {
		return nil
	}
	return victim
}
