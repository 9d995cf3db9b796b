package game

type moveDelta struct {
	dx, dy int
}

var (
	rookDirections = [...]moveDelta{
		{dx: 0, dy: -1},
		{dx: 1, dy: 0},
		{dx: 0, dy: 1},
		{dx: -1, dy: 0},
	}
	bishopDirections = [...]moveDelta{
		{dx: 1, dy: -1},
		{dx: 1, dy: 1},
		{dx: -1, dy: 1},
		{dx: -1, dy: -1},
	}
	queenDirections = [...]moveDelta{
		{dx: 0, dy: -1}, {dx: 1, dy: -1}, {dx: 1, dy: 0}, {dx: 1, dy: 1},
		{dx: 0, dy: 1}, {dx: -1, dy: 1}, {dx: -1, dy: 0}, {dx: -1, dy: -1},
	}
	knightOffsets = [...]moveDelta{
		{dx: 1, dy: -2},
		{dx: 2, dy: -1},
		{dx: 2, dy: 1},
		{dx: 1, dy: 2},
		{dx: -1, dy: 2},
		{dx: -2, dy: 1},
		{dx: -2, dy: -1},
		{dx: -1, dy: -2},
	}
	kingOffsets = queenDirections
)

// rays returns the candidate destinations of pc on a size x size grid,
// grouped into rays ordered outward from the piece. Occupancy is ignored.
func rays(pc *Piece, size int) [][]Square {
	if pc == nil {
		return nil
	}
	switch pc.Type {
	case Pawn:
		return pawnPushRays(pc, size)
	case Knight:
		return stepRays(pc.Square, size, knightOffsets[:])
	case Bishop:
		return slideRays(pc.Square, size, bishopDirections[:])
	case Rook:
		return slideRays(pc.Square, size, rookDirections[:])
	case Queen:
		return slideRays(pc.Square, size, queenDirections[:])
	case King:
		return stepRays(pc.Square, size, kingOffsets[:])
	case Amazon:
		out := slideRays(pc.Square, size, queenDirections[:])
		return append(out, stepRays(pc.Square, size, knightOffsets[:])...)
	default:
		return nil
	}
}

func inBounds(sq Square, size int) bool {
	return sq.X >= 0 && sq.X < size && sq.Y >= 0 && sq.Y < size
}

func slideRays(from Square, size int, directions []moveDelta) [][]Square {
	out := make([][]Square, 0, len(directions))
	for _, d := range directions {
		var ray []Square
		for sq := from.Add(d.dx, d.dy); inBounds(sq, size); sq = sq.Add(d.dx, d.dy) {
			ray = append(ray, sq)
		}
		if len(ray) > 0 {
			out = append(out, ray)
		}
	}
	return out
}

func stepRays(from Square, size int, offsets []moveDelta) [][]Square {
	out := make([][]Square, 0, len(offsets))
	for _, d := range offsets {
		if sq := from.Add(d.dx, d.dy); inBounds(sq, size) {
			out = append(out, []Square{sq})
		}
	}
	return out
}

// pawnPushRays is a single ray of one or, for an unmoved pawn, two cells.
func pawnPushRays(pc *Piece, size int) [][]Square {
	dir := forward(pc.Color)
	steps := 1
	if !pc.HasMoved {
		steps = 2
	}
	var ray []Square
	for i := 1; i <= steps; i++ {
		sq := pc.Square.Add(0, dir*i)
		if !inBounds(sq, size) {
			break
		}
		ray = append(ray, sq)
	}
	if len(ray) == 0 {
		return nil
	}
	return [][]Square{ray}
}

// between lists the squares strictly between two squares on one row.
func between(a, b Square) []Square {
	if a.Y != b.Y {
		return nil
	}
	lo, hi := a.X, b.X
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo <= 1 {
		return nil
	}
	out := make([]Square, 0, hi-lo-1)
	for x := lo + 1; x < hi; x++ {
		out = append(out, Square{X: x, Y: a.Y})
	}
	return out
}
