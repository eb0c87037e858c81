package domain

// Cell is the content of one board position.
type Cell int

const (
	Empty   Cell = 0
	PlayerA Cell = 1
	PlayerB Cell = 2
)

const (
	DefaultRows = 6
	DefaultCols = 7
	ToWin       = 4
)

// NoWinner is the Winner value while nobody has won.
const NoWinner = -1

// Status represents the game status
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusDrawn   Status = "drawn"
)

// basic errors that can occur during a move
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrNotYourTurn   Error = "not your turn"
	ErrGameFinished  Error = "game already finished"
	ErrInvalidColumn Error = "invalid column"
	ErrColumnFull    Error = "column is full"
)

// CellFor maps a player index (0 or 1) to its board cell.
func CellFor(playerIndex int) Cell {
	if playerIndex == 0 {
		return PlayerA
	}
	return PlayerB
}
