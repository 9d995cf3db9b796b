package game

// PieceState is a serializable representation of a Piece.
type PieceState struct {
	ID        int    `json:"id"`
	Color     string `json:"color"`
	Type      string `json:"type"`
	Symbol    string `json:"symbol"`
	Square    string `json:"square"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	HasMoved  bool   `json:"hasMoved"`
	EnPassant bool   `json:"enPassant,omitempty"`
}

// CellState is one grid cell as the renderer sees it.
type CellState struct {
	Square    string `json:"square"`
	Shade     string `json:"shade"`
	Highlight bool   `json:"highlight,omitempty"`
	Piece     *int   `json:"piece,omitempty"`
}

// BoardState is a serializable representation of the game state.
type BoardState struct {
	Size          int           `json:"size"`
	Pieces        []PieceState  `json:"pieces"`
	Cells         [][]CellState `json:"cells"`
	Turn          string        `json:"turn"`
	Status        Status        `json:"status"`
	InCheck       bool          `json:"inCheck"`
	GameOver      bool          `json:"gameOver"`
	HasWinner     bool          `json:"hasWinner"`
	Winner        string        `json:"winner,omitempty"`
	MoveCount     int           `json:"moveCount"`
	History       []string      `json:"history"`
	Selected      string        `json:"selected,omitempty"`
	SelectedMoves []string      `json:"selectedMoves,omitempty"`
	LastNote      string        `json:"lastNote"`
	Layout        string        `json:"layout"`
}

// State returns a serializable snapshot of the game.
func (b *Board) State() BoardState {
	size := b.grid.size
	state := BoardState{
		Size:      size,
		Pieces:    make([]PieceState, 0, 4*size),
		Cells:     make([][]CellState, size),
		Turn:      b.turn.String(),
		Status:    b.status,
		InCheck:   b.status == StatusCheck || b.status == StatusCheckmate,
		GameOver:  b.status.Terminal(),
		MoveCount: b.moveCount,
		History:   b.MoveHistory(),
		LastNote:  b.lastNote,
		Layout:    b.Layout().String(),
	}
	if winner, ok := b.Winner(); ok {
		state.HasWinner = true
		state.Winner = winner.String()
	}

	var highlight SquareSet
	if b.selected != nil {
		state.Selected = b.Coord(b.selected.Square)
		highlight.Add(b.selected.Square)
		for _, sq := range b.SelectedMoves() {
			state.SelectedMoves = append(state.SelectedMoves, b.Coord(sq))
			highlight.Add(sq)
		}
	}

	for y := range state.Cells {
		state.Cells[y] = make([]CellState, size)
		for x := range state.Cells[y] {
			cell := &b.grid.cells[y][x]
			cs := CellState{
				Square: b.Coord(cell.square),
				Shade:  cell.Shade().String(),
			}
			if pc := cell.occupant; pc != nil {
				id := pc.ID
				cs.Piece = &id
				state.Pieces = append(state.Pieces, PieceState{
					ID:        pc.ID,
					Color:     pc.Color.String(),
					Type:      pc.Type.Name(),
					Symbol:    pc.Type.String(),
					Square:    b.Coord(pc.Square),
					X:         pc.Square.X,
					Y:         pc.Square.Y,
					HasMoved:  pc.HasMoved,
					EnPassant: pc.EnPassant,
				})
			}
			state.Cells[y][x] = cs
		}
	}
	highlight.Iter(func(sq Square) {
		state.Cells[sq.Y][sq.X].Highlight = true
	})
	return state
}
