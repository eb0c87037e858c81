package domain

func NewBoard(rows, cols int) [][]Cell {
	board := make([][]Cell, rows)
	for i := range board {
		board[i] = make([]Cell, cols)
	}
	return board
}

// dropRow returns the lowest empty row of the column, or -1 when the
// column is full. Row 0 is the top of the board.
func dropRow(board [][]Cell, column int) int {
	for row := len(board) - 1; row >= 0; row-- {
		if board[row][column] == Empty {
			return row
		}
	}
	return -1
}

// countDirection counts contiguous cells equal to cell walking from
// (row, col) along (deltaRow, deltaCol), excluding the start position.
// It stops at the first mismatch or at the board edge.
func countDirection(board [][]Cell, row, col, deltaRow, deltaCol int, cell Cell) int {
	rows := len(board)
	cols := len(board[0])

	count := 0
	r, c := row+deltaRow, col+deltaCol
	for r >= 0 && r < rows && c >= 0 && c < cols && board[r][c] == cell {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// CopyBoard returns a deep copy of the board.
func CopyBoard(board [][]Cell) [][]Cell {
	newBoard := make([][]Cell, len(board))
	for i := range board {
		newBoard[i] = make([]Cell, len(board[i]))
		copy(newBoard[i], board[i])
	}
	return newBoard
}
