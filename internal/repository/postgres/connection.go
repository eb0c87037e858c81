package postgres

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id               BIGSERIAL PRIMARY KEY,
	room_id          TEXT NOT NULL,
	player_a         TEXT NOT NULL,
	player_b         TEXT NOT NULL,
	winner_index     INT,
	winner_name      TEXT,
	status           TEXT NOT NULL,
	total_moves      INT NOT NULL,
	duration_seconds INT NOT NULL,
	started_at       TIMESTAMPTZ NOT NULL,
	finished_at      TIMESTAMPTZ NOT NULL,
	final_board      JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matches_finished_at ON matches (finished_at DESC);
`

func InitDB(connStr string, maxOpenConns, maxIdleConns, connMaxLifetimeMin int) error {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("unable to connect to database: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %v", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(time.Duration(connMaxLifetimeMin) * time.Minute)

	DB = db
	log.Println("Database connected successfully")
	return nil
}

func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
