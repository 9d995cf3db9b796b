package game

// MoveRequest is passed in by an external layer to request a move.
type MoveRequest struct {
	From Square
	To   Square
}

// Select handles a click on sq. With nothing selected, a piece of the side
// to move becomes the selection. With a selection, sq is tried as its
// destination; failing that, another own piece on sq is selected instead.
// It reports whether a move was committed.
func (b *Board) Select(sq Square) bool {
	cell := b.grid.Cell(sq)
	if cell == nil {
		return false
	}

	if b.selected == nil {
		if pc := cell.occupant; pc != nil && pc.Color == b.turn {
			b.selected = pc
		}
		return false
	}

	if b.Execute(b.selected, sq) {
		return true
	}
	if pc := cell.occupant; pc != nil && pc.Color == b.turn {
		b.selected = pc
	}
	return false
}

// SelectedMoves lists the legal destinations of the selected piece.
func (b *Board) SelectedMoves() []Square {
	if b.selected == nil {
		return nil
	}
	return b.LegalMoves(b.selected)
}

// AttemptMove moves the piece on from to to if it belongs to the side to
// move and the move is legal. It reports whether the move was committed.
func (b *Board) AttemptMove(from, to Square) bool {
	pc := b.grid.PieceAt(from)
	if pc == nil || pc.Color != b.turn {
		b.selected = nil
		return false
	}
	return b.Execute(pc, to)
}

// Execute commits a user move of pc to to, applies its side effects and
// passes the turn. Illegal moves return false and leave the board as it
// was, apart from clearing the selection.
func (b *Board) Execute(pc *Piece, to Square) bool {
	if b.status.Terminal() {
		b.selected = nil
		return false
	}
	if pc == nil || pc.Color != b.turn {
		b.selected = nil
		return false
	}

	note := b.lastNote
	b.lastNote = ""
	if !b.execute(pc, to, false, true) {
		b.lastNote = note
		return false
	}
	b.endTurn()
	return true
}

// Move is Execute for callers that want an error.
func (b *Board) Move(req MoveRequest) error {
	if b.status.Terminal() {
		return ErrGameOver
	}
	if !b.AttemptMove(req.From, req.To) {
		return ErrInvalidMove
	}
	return nil
}

func (b *Board) endTurn() {
	b.turn = b.turn.Opposite()
	b.clearEnPassant(b.turn)
	b.updateGameStatus()
	appendNote(&b.lastNote, b.statusNote())
}
