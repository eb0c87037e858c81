package domain

// Game is the authoritative state machine for one match. It knows
// nothing about rooms or connections; callers identify players only by
// index 0 or 1.
type Game struct {
	Rows               int
	Cols               int
	Board              [][]Cell
	CurrentPlayerIndex int
	Status             Status
	Winner             int // player index, or NoWinner
	MoveCount          int
}

func NewGame(rows, cols int) *Game {
	g := &Game{Rows: rows, Cols: cols}
	g.Reset()
	return g
}

func NewDefaultGame() *Game {
	return NewGame(DefaultRows, DefaultCols)
}

// Reset clears the board and restores the initial state. Rematches go
// through here.
func (g *Game) Reset() {
	g.Board = NewBoard(g.Rows, g.Cols)
	g.CurrentPlayerIndex = 0
	g.Status = StatusPlaying
	g.Winner = NoWinner
	g.MoveCount = 0
}

// Play drops a piece for playerIndex into column and returns the row it
// landed in. Rejected moves leave the game untouched.
func (g *Game) Play(playerIndex, column int) (int, error) {
	if playerIndex != g.CurrentPlayerIndex {
		return -1, ErrNotYourTurn
	}
	if g.Status != StatusPlaying {
		return -1, ErrGameFinished
	}
	if column < 0 || column >= g.Cols {
		return -1, ErrInvalidColumn
	}

	row := dropRow(g.Board, column)
	if row < 0 {
		return -1, ErrColumnFull
	}

	cell := CellFor(playerIndex)
	g.Board[row][column] = cell
	g.MoveCount++

	if checkWin(g.Board, row, column, cell) {
		g.Status = StatusWon
		g.Winner = playerIndex
		return row, nil
	}

	if g.MoveCount == g.Rows*g.Cols {
		g.Status = StatusDrawn
		return row, nil
	}

	g.CurrentPlayerIndex = 1 - g.CurrentPlayerIndex
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDrawn
}
