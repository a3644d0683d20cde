package game

import "sync"

var lineCache sync.Map // size -> [][]int

// WinLines returns every row, column and both diagonals of a size*size
// board as index sequences. The result is computed once per size and shared
// between callers; it must not be modified.
func WinLines(size int) [][]int {
	if cached, ok := lineCache.Load(size); ok {
		return cached.([][]int)
	}
	lines, _ := lineCache.LoadOrStore(size, buildLines(size))
	return lines.([][]int)
}

func buildLines(size int) [][]int {
	lines := make([][]int, 0, 2*size+2)

	for row := 0; row < size; row++ {
		line := make([]int, size)
		for col := 0; col < size; col++ {
			line[col] = row*size + col
		}
		lines = append(lines, line)
	}

	for col := 0; col < size; col++ {
		line := make([]int, size)
		for row := 0; row < size; row++ {
			line[row] = row*size + col
		}
		lines = append(lines, line)
	}

	diagonal := make([]int, size)
	anti := make([]int, size)
	for i := 0; i < size; i++ {
		diagonal[i] = i*size + i
		anti[i] = i*size + (size - 1 - i)
	}
	return append(lines, diagonal, anti)
}
