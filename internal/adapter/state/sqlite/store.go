// Package sqlite persists classification records in a single SQLite table,
// keyed by (owner, repo, pr, comment_id).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bkyoung/goodtogo/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

const dirMode = 0o700
const fileMode = 0o600

// Store implements state.Store backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the classification database at path. The parent
// directory is created with mode 0700 and the database file is tightened
// to 0600 if it already existed with broader permissions.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	if info, err := os.Stat(path); err == nil {
		if info.Mode().Perm()&^fileMode != 0 {
			if err := os.Chmod(path, fileMode); err != nil {
				return nil, fmt.Errorf("tighten state file permissions: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	if err := os.Chmod(path, fileMode); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("set state file permissions: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS classifications (
		owner           TEXT NOT NULL,
		repo            TEXT NOT NULL,
		pr_number       INTEGER NOT NULL,
		comment_id      TEXT NOT NULL,
		commit_sha      TEXT NOT NULL,
		classification  TEXT NOT NULL,
		priority        TEXT NOT NULL,
		first_seen_at   INTEGER NOT NULL,
		PRIMARY KEY (owner, repo, pr_number, comment_id)
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("create classifications schema: %w", err)
	}
	return nil
}

// Get returns the stored classification for (coord, commentID).
func (s *Store) Get(ctx context.Context, coord domain.PRCoordinate, commentID string) (domain.ClassificationRecord, bool, error) {
	const q = `
		SELECT commit_sha, classification, priority, first_seen_at
		FROM classifications
		WHERE owner = ? AND repo = ? AND pr_number = ? AND comment_id = ?
	`

	var commitSHA, classification, priority string
	var firstSeen int64

	err := s.db.QueryRowContext(ctx, q, coord.Owner, coord.Repo, coord.PR, commentID).
		Scan(&commitSHA, &classification, &priority, &firstSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ClassificationRecord{}, false, nil
	}
	if err != nil {
		return domain.ClassificationRecord{}, false, fmt.Errorf("get classification: %w", err)
	}

	rec, err := domain.NewClassificationRecord(domain.ClassificationRecordInput{
		Coordinate:     coord,
		CommentID:      commentID,
		CommitSHA:      commitSHA,
		Classification: domain.CommentClassification(classification),
		Priority:       domain.Priority(priority),
		FirstSeenAt:    time.Unix(firstSeen, 0).UTC(),
	})
	if err != nil {
		return domain.ClassificationRecord{}, false, fmt.Errorf("decode stored classification: %w", err)
	}
	return rec, true, nil
}

// Put inserts or overwrites the record for (coord, commentID).
func (s *Store) Put(ctx context.Context, rec domain.ClassificationRecord) error {
	const q = `
		INSERT INTO classifications (owner, repo, pr_number, comment_id, commit_sha, classification, priority, first_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner, repo, pr_number, comment_id) DO UPDATE SET
			commit_sha = excluded.commit_sha,
			classification = excluded.classification,
			priority = excluded.priority,
			first_seen_at = excluded.first_seen_at
	`

	_, err := s.db.ExecContext(ctx, q,
		rec.Coordinate.Owner, rec.Coordinate.Repo, rec.Coordinate.PR, rec.CommentID,
		rec.CommitSHA, string(rec.Classification), string(rec.Priority), rec.FirstSeenAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("put classification: %w", err)
	}
	return nil
}

// InvalidatePR deletes every record for coord.
func (s *Store) InvalidatePR(ctx context.Context, coord domain.PRCoordinate) error {
	const q = `DELETE FROM classifications WHERE owner = ? AND repo = ? AND pr_number = ?`

	_, err := s.db.ExecContext(ctx, q, coord.Owner, coord.Repo, coord.PR)
	if err != nil {
		return fmt.Errorf("invalidate pr classifications: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
