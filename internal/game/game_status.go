package game

import "fmt"

// withHypotheticalMove applies from->to, runs fn and restores both cells
// and the mover's square before returning, whatever fn does. Calls nest.
func (b *Board) withHypotheticalMove(from, to Square, fn func()) {
	src, dst := b.grid.Cell(from), b.grid.Cell(to)
	if src == nil || dst == nil {
		fn()
		return
	}

	mover, displaced := src.occupant, dst.occupant
	var origin Square
	if mover != nil {
		origin = mover.Square
	}
	defer func() {
		src.occupant = mover
		dst.occupant = displaced
		if mover != nil {
			mover.Square = origin
		}
	}()

	src.clear()
	dst.place(mover)
	fn()
}

// attackSet is the union of the attacking squares of every piece of color.
func (b *Board) attackSet(color Color) SquareSet {
	var set SquareSet
	for _, pc := range b.grid.Pieces(color) {
		for _, sq := range b.attackedSquares(pc) {
			set.Add(sq)
		}
	}
	return set
}

func (b *Board) isKingInCheck(color Color) bool {
	king := b.grid.findKing(color)
	if king == nil {
		return false
	}
	attacks := b.attackSet(color.Opposite())
	return attacks.Has(king.Square)
}

// InCheck reports whether color's king is attacked in the current position.
func (b *Board) InCheck(color Color) bool {
	return b.isKingInCheck(color)
}

// InCheckAfter reports whether color's king would be attacked after moving
// the occupant of from to to. The board is unchanged on return.
func (b *Board) InCheckAfter(color Color, from, to Square) bool {
	var inCheck bool
	b.withHypotheticalMove(from, to, func() {
		inCheck = b.isKingInCheck(color)
	})
	return inCheck
}

func (b *Board) hasLegalMove(pc *Piece) bool {
	return len(b.LegalMoves(pc)) > 0
}

// InCheckmate reports whether color is in check with no legal move for the
// king or any other piece.
func (b *Board) InCheckmate(color Color) bool {
	king := b.grid.findKing(color)
	if king == nil {
		return false
	}
	if b.hasLegalMove(king) || !b.InCheck(color) {
		return false
	}
	for _, pc := range b.grid.Pieces(color) {
		if pc != king && b.hasLegalMove(pc) {
			return false
		}
	}
	return true
}

// InStalemate reports whether no piece of color has a legal move. It does
// not exclude check, so a mated side is also reported; test InCheckmate
// first.
func (b *Board) InStalemate(color Color) bool {
	for _, pc := range b.grid.Pieces(color) {
		if b.hasLegalMove(pc) {
			return false
		}
	}
	return true
}

// Status classifies the position for the side to move.
func (b *Board) Status() Status {
	return b.status
}

func (b *Board) Winner() (Color, bool) {
	if b.status != StatusCheckmate {
		return White, false
	}
	return b.turn.Opposite(), true
}

func (b *Board) updateGameStatus() {
	current := b.turn
	switch {
	case b.InCheckmate(current):
		b.status = StatusCheckmate
	case b.InStalemate(current):
		b.status = StatusStalemate
	case b.InCheck(current):
		b.status = StatusCheck
	default:
		b.status = StatusOngoing
	}
}

func (b *Board) statusNote() string {
	current := b.turn
	switch b.status {
	case StatusCheckmate:
		return fmt.Sprintf("Checkmate - %s wins", current.Opposite())
	case StatusStalemate:
		return "Stalemate"
	case StatusCheck:
		return fmt.Sprintf("%s to move (in check)", current)
	default:
		return fmt.Sprintf("%s's turn", current)
	}
}
