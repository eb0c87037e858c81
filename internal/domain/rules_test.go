package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerticalWin(t *testing.T) {
	g := NewDefaultGame()
	playSequence(t, g, 0, 1, 0, 1, 0, 1, 0)

	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, 0, g.Winner)
}

func TestDiagonalWins(t *testing.T) {
	tests := []struct {
		name    string
		columns []int
		winner  int
	}{
		{
			// staircase rising to the right, won by player 0
			name:    "diagonal /",
			columns: []int{0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3},
			winner:  0,
		},
		{
			// mirrored staircase rising to the left
			name:    "diagonal \\",
			columns: []int{6, 5, 5, 4, 4, 3, 4, 3, 3, 0, 3},
			winner:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDefaultGame()
			playSequence(t, g, tt.columns...)

			assert.Equal(t, StatusWon, g.Status)
			assert.Equal(t, tt.winner, g.Winner)
		})
	}
}

func TestWinAnchoredMidRun(t *testing.T) {
	// pieces at columns 0,1,3 already placed; the winning piece lands in
	// column 2, in the middle of the run
	g := NewDefaultGame()
	playSequence(t, g, 0, 6, 1, 6, 3, 6, 2)

	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, 0, g.Winner)
}

func TestThreeInARowIsNotAWin(t *testing.T) {
	g := NewDefaultGame()
	playSequence(t, g, 0, 6, 1, 6, 2)

	require.Equal(t, StatusPlaying, g.Status)
	assert.Equal(t, NoWinner, g.Winner)
}
