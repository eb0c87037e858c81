package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropfour/backend/internal/domain"
	"github.com/dropfour/backend/internal/room"
)

type MatchRepo struct {
	DB *sql.DB
}

func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{DB: db}
}

// ArchivedMatch is the API-facing shape of a stored match.
type ArchivedMatch struct {
	RoomID          string    `json:"roomId"`
	PlayerA         string    `json:"playerA"`
	PlayerB         string    `json:"playerB"`
	WinnerIndex     *int      `json:"winnerIndex"`
	WinnerName      string    `json:"winnerName,omitempty"`
	Status          string    `json:"status"`
	TotalMoves      int       `json:"totalMoves"`
	DurationSeconds int       `json:"durationSeconds"`
	FinishedAt      time.Time `json:"finishedAt"`
}

// ArchiveMatch stores a finished match record.
func (r *MatchRepo) ArchiveMatch(rec room.MatchRecord) error {
	boardJSON, err := json.Marshal(rec.FinalBoard)
	if err != nil {
		return fmt.Errorf("failed to marshal final board: %v", err)
	}

	var winnerIndex *int
	var winnerName *string
	if rec.WinnerIndex != domain.NoWinner {
		winnerIndex = &rec.WinnerIndex
		winnerName = &rec.WinnerName
	}

	query := `
	INSERT INTO matches (room_id, player_a, player_b, winner_index, winner_name, status, total_moves, duration_seconds, started_at, finished_at, final_board)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	_, err = r.DB.Exec(query, rec.RoomID, rec.PlayerA, rec.PlayerB, winnerIndex, winnerName,
		string(rec.Status), rec.TotalMoves, rec.DurationSeconds, rec.StartedAt, rec.FinishedAt, boardJSON)
	if err != nil {
		return fmt.Errorf("failed to insert match record: %v", err)
	}
	return nil
}

// RecentMatches returns the most recently finished matches, newest first.
func (r *MatchRepo) RecentMatches(limit int) ([]ArchivedMatch, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
	SELECT room_id, player_a, player_b, winner_index, winner_name, status, total_moves, duration_seconds, finished_at
	FROM matches
	ORDER BY finished_at DESC
	LIMIT $1;
	`

	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent matches: %v", err)
	}
	defer rows.Close()

	matches := []ArchivedMatch{}
	for rows.Next() {
		var m ArchivedMatch
		var winnerIndex sql.NullInt64
		var winnerName sql.NullString
		if err := rows.Scan(&m.RoomID, &m.PlayerA, &m.PlayerB, &winnerIndex, &winnerName,
			&m.Status, &m.TotalMoves, &m.DurationSeconds, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %v", err)
		}
		if winnerIndex.Valid {
			idx := int(winnerIndex.Int64)
			m.WinnerIndex = &idx
		}
		if winnerName.Valid {
			m.WinnerName = winnerName.String
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
