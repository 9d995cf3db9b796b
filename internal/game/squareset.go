package game

// SquareSet is a set of squares on boards up to MaxBoardSize wide, one bit
// per square at index y*MaxBoardSize+x.
type SquareSet [MaxBoardSize * MaxBoardSize / 64]uint64

func squareIndex(s Square) (int, bool) {
	if s.X < 0 || s.X >= MaxBoardSize || s.Y < 0 || s.Y >= MaxBoardSize {
		return 0, false
	}
	return s.Y*MaxBoardSize + s.X, true
}

func squareFromIndex(idx int) Square {
	return Square{X: idx % MaxBoardSize, Y: idx / MaxBoardSize}
}

func (b *SquareSet) Add(s Square) {
	if idx, ok := squareIndex(s); ok {
		b[idx>>6] |= 1 << uint(idx&63)
	}
}

func (b *SquareSet) Has(s Square) bool {
	idx, ok := squareIndex(s)
	if !ok {
		return false
	}
	return b[idx>>6]&(1<<uint(idx&63)) != 0
}

// Iter visits squares in index order.
func (b *SquareSet) Iter(fn func(Square)) {
	for i, w := range b {
		for w != 0 {
			lsb := w & -w
			fn(squareFromIndex(i*64 + bitScan(lsb)))
			w ^= lsb
		}
	}
}

func squareSetOf(squares []Square) SquareSet {
	var set SquareSet
	for _, s := range squares {
		set.Add(s)
	}
	return set
}

func bitScan(x uint64) int {
	const debruijn = 0x03f79d71b4cb0a89
	index := ((x & -x) * debruijn) >> 58
	return debruijnIndex[index]
}

var debruijnIndex = [64]int{
	0, 1, 48, 2, 57, 49, 28, 3,
	61, 58, 50, 42, 38, 29, 17, 4,
	62, 55, 59, 36, 53, 51, 43, 22,
	45, 39, 33, 30, 24, 18, 12, 5,
	63, 47, 56, 27, 60, 41, 37, 16,
	54, 35, 52, 21, 44, 32, 23, 11,
	46, 26, 40, 15, 34, 20, 31, 10,
	25, 14, 19, 9, 13, 8, 7, 6,
}
