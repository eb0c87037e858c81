package domain

// The four axes a winning line can lie on. Each is scanned in both
// directions from the anchor cell.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// checkWin reports whether the piece just placed at (row, col) completed
// a line of at least ToWin cells. The anchor itself counts toward the
// line, so both directions of an axis plus one must reach ToWin.
func checkWin(board [][]Cell, row, col int, cell Cell) bool {
	for _, axis := range axes {
		count := 1
		count += countDirection(board, row, col, axis[0], axis[1], cell)
		count += countDirection(board, row, col, -axis[0], -axis[1], cell)
		if count >= ToWin {
			return true
		}
	}
	return false
}
