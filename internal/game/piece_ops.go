package game

func (b *Board) placePiece(color Color, pt PieceType, sq Square) *Piece {
	cell := b.grid.Cell(sq)
	if cell == nil {
		return nil
	}
	pc := &Piece{
		ID:    b.nextPieceID,
		Color: color,
		Type:  pt,
	}
	b.nextPieceID++
	cell.place(pc)
	return pc
}

// execute commits pc to the destination. Unless force is set the
// destination must be legal; a rejected move changes nothing but the
// selection. When record is set the move is notated and logged.
func (b *Board) execute(pc *Piece, to Square, force, record bool) bool {
	dst := b.grid.Cell(to)
	if pc == nil || dst == nil || b.grid.PieceAt(pc.Square) != pc {
		b.selected = nil
		return false
	}
	if !force && !b.IsLegal(pc, to) {
		b.selected = nil
		return false
	}

	from := pc.Square
	src := b.grid.Cell(from)
	displaced := dst.occupant

	rec := MoveRecord{Color: pc.Color, Piece: pc.Type, From: from, To: to}
	if record {
		rec.Notation = b.Notate(from, to)
	}
	if displaced != nil {
		rec.Captured = pieceTypePtr(displaced.Type)
	}

	src.clear()
	dst.place(pc)
	pc.HasMoved = true
	b.selected = nil

	if pc.Type == Pawn {
		b.resolvePawnMove(pc, from, to, displaced, &rec)
	}
	if isCastle(pc, from, to) {
		b.performCastleRookMove(pc, from, to, &rec)
	}

	if record {
		b.recordMove(rec)
	}
	return true
}

func (b *Board) resolvePawnMove(pc *Piece, from, to Square, displaced *Piece, rec *MoveRecord) {
	if to.Y == promotionRow(pc.Color, b.grid.size) {
		b.placePiece(pc.Color, Queen, to)
		rec.Promotion = pieceTypePtr(Queen)
		appendNote(&b.lastNote, "Promoted to queen")
	}

	if absInt(to.Y-from.Y) == 2 {
		pc.EnPassant = true
	}

	if absInt(to.X-from.X) == 1 && displaced == nil {
		victimCell := b.grid.Cell(Square{X: to.X, Y: from.Y})
		if victimCell != nil && victimCell.occupant != nil {
			rec.Captured = pieceTypePtr(victimCell.occupant.Type)
			victimCell.clear()
		}
		rec.EnPassant = true
		appendNote(&b.lastNote, "En passant capture")
	}
}

func (b *Board) performCastleRookMove(king *Piece, from, to Square, rec *MoveRecord) {
	side := CastleQueenside
	rookTo := to.Add(1, 0)
	note := "Castled queenside"
	if to.X > from.X {
		side = CastleKingside
		rookTo = to.Add(-1, 0)
		note = "Castled kingside"
	}

	rook := b.grid.PieceAt(b.castleRookHome(king, side))
	if rook == nil || rook.Type != Rook || rook.Color != king.Color {
		return
	}
	if !b.execute(rook, rookTo, true, false) {
		return
	}
	rec.Castle = &side
	appendNote(&b.lastNote, note)
}

// clearEnPassant drops the en passant flag from every pawn of color.
func (b *Board) clearEnPassant(color Color) {
	for _, pc := range b.grid.Pieces(color) {
		if pc.Type == Pawn {
			pc.EnPassant = false
		}
	}
}
