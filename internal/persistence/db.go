// Package persistence stores finished run reports in SQLite.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Koshroy/voting-abm/internal/config"
	"github.com/Koshroy/voting-abm/internal/engine"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for run storage.
type DB struct {
	conn *sqlx.DB
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID               string  `db:"id" json:"id"`
	Seed             int64   `db:"seed" json:"seed"`
	Policy           string  `db:"policy" json:"policy"`
	Rounds           int     `db:"rounds" json:"rounds"`
	Voters           int     `db:"voters" json:"voters"`
	Posts            int     `db:"posts" json:"posts"`
	ExtremistCount   int     `db:"extremist_count" json:"extremist_count"`
	EnthusiastCount  int     `db:"enthusiast_count" json:"enthusiast_count"`
	ExtremistOpinion float64 `db:"extremist_opinion" json:"extremist_opinion"`
	TopOpinionMean   float64 `db:"top_opinion_mean" json:"top_opinion_mean"`
	ConsensusGap     float64 `db:"consensus_gap" json:"consensus_gap"`
	StartedAtMs      int64   `db:"started_at_ms" json:"started_at_ms"`
	DurationMs       int64   `db:"duration_ms" json:"duration_ms"`
	ConfigJSON       string  `db:"config_json" json:"-"`
}

// StartedAt returns the run's start time.
func (r RunRecord) StartedAt() time.Time {
	return time.UnixMilli(r.StartedAtMs)
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		policy TEXT NOT NULL,
		rounds INTEGER NOT NULL,
		voters INTEGER NOT NULL,
		posts INTEGER NOT NULL,
		extremist_count INTEGER NOT NULL,
		enthusiast_count INTEGER NOT NULL,
		extremist_opinion REAL NOT NULL,
		top_opinion_mean REAL NOT NULL,
		consensus_gap REAL NOT NULL,
		started_at_ms INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS top_posts (
		run_id TEXT NOT NULL REFERENCES runs(id),
		feed_rank INTEGER NOT NULL,
		post_id INTEGER NOT NULL,
		score INTEGER NOT NULL,
		opinion REAL NOT NULL,
		PRIMARY KEY (run_id, feed_rank)
	);

	CREATE TABLE IF NOT EXISTS extremists (
		run_id TEXT NOT NULL REFERENCES runs(id),
		voter_id INTEGER NOT NULL,
		opinion REAL NOT NULL,
		PRIMARY KEY (run_id, voter_id)
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at_ms);
	CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores a finished run and returns its generated id.
func (db *DB) SaveRun(cfg config.Config, res engine.Result) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	rep := res.Report
	rec := RunRecord{
		ID:               uuid.NewString(),
		Seed:             rep.Seed,
		Policy:           rep.Policy,
		Rounds:           rep.Rounds,
		Voters:           rep.Stats.Voters,
		Posts:            rep.Stats.Posts,
		ExtremistCount:   rep.Stats.ExtremistCount,
		EnthusiastCount:  rep.Stats.EnthusiastCount,
		ExtremistOpinion: rep.Stats.ExtremistOpinion,
		TopOpinionMean:   rep.Stats.TopOpinionMean,
		ConsensusGap:     rep.Stats.ConsensusGap,
		StartedAtMs:      res.Started.UnixMilli(),
		DurationMs:       res.Duration.Milliseconds(),
		ConfigJSON:       string(cfgJSON),
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, seed, policy, rounds, voters, posts, extremist_count, enthusiast_count,
		 extremist_opinion, top_opinion_mean, consensus_gap, started_at_ms, duration_ms, config_json)
		VALUES (:id, :seed, :policy, :rounds, :voters, :posts, :extremist_count, :enthusiast_count,
		 :extremist_opinion, :top_opinion_mean, :consensus_gap, :started_at_ms, :duration_ms, :config_json)`,
		rec,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	postStmt, err := tx.Preparex("INSERT INTO top_posts (run_id, feed_rank, post_id, score, opinion) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer postStmt.Close()

	for _, p := range rep.TopPosts {
		if _, err := postStmt.Exec(rec.ID, p.Rank, uint64(p.PostID), p.Score, p.Opinion); err != nil {
			return "", fmt.Errorf("insert top post %d: %w", p.PostID, err)
		}
	}

	voterStmt, err := tx.Preparex("INSERT INTO extremists (run_id, voter_id, opinion) VALUES (?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer voterStmt.Close()

	for _, v := range rep.Extremists {
		if _, err := voterStmt.Exec(rec.ID, uint64(v.VoterID), v.Opinion); err != nil {
			return "", fmt.Errorf("insert extremist %d: %w", v.VoterID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Debug("run saved", "id", rec.ID, "seed", rec.Seed, "top_posts", len(rep.TopPosts))
	return rec.ID, nil
}

// StoredRun is a run loaded back from the database.
type StoredRun struct {
	Record RunRecord
	Config config.Config
	Report engine.Report
}

// LoadRun reads a run and its report rows.
func (db *DB) LoadRun(id string) (StoredRun, error) {
	var out StoredRun

	err := db.conn.Get(&out.Record, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredRun{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return StoredRun{}, fmt.Errorf("load run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(out.Record.ConfigJSON), &out.Config); err != nil {
		return StoredRun{}, fmt.Errorf("decode config of run %s: %w", id, err)
	}

	rec := out.Record
	out.Report = engine.Report{
		Seed:   rec.Seed,
		Policy: rec.Policy,
		Rounds: rec.Rounds,
		Stats: engine.Stats{
			ExtremistOpinion: rec.ExtremistOpinion,
			ExtremistCount:   rec.ExtremistCount,
			EnthusiastCount:  rec.EnthusiastCount,
			Voters:           rec.Voters,
			Posts:            rec.Posts,
			TopOpinionMean:   rec.TopOpinionMean,
			ConsensusGap:     rec.ConsensusGap,
		},
	}

	err = db.conn.Select(&out.Report.TopPosts,
		"SELECT feed_rank AS rank, post_id, score, opinion FROM top_posts WHERE run_id = ? ORDER BY feed_rank",
		id,
	)
	if err != nil {
		return StoredRun{}, fmt.Errorf("load top posts of run %s: %w", id, err)
	}

	err = db.conn.Select(&out.Report.Extremists,
		"SELECT voter_id, opinion FROM extremists WHERE run_id = ? ORDER BY voter_id",
		id,
	)
	if err != nil {
		return StoredRun{}, fmt.Errorf("load extremists of run %s: %w", id, err)
	}

	return out, nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY started_at_ms DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// SaveMeta stores a key-value pair in simulation metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	return value, err
}
