package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	content     TEXT NOT NULL,
	uploaded_at TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS report_participants (
	report_id   TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
	participant TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (report_id, participant)
);
CREATE INDEX IF NOT EXISTS report_participants_participant_idx ON report_participants (participant);
`

func (s *implStore) migrate(ctx context.Context) error {
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *implStore) Insert(ctx context.Context, r Report) (*Report, error) {
	r.ID = uuid.NewString()
	if r.UploadedAt.IsZero() {
		r.UploadedAt = s.now()
	}
	r.Participants = dedupe(r.Participants)

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reports (id, title, content, uploaded_at, created_at) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Title, r.Content, formatTime(r.UploadedAt), formatTime(s.now()),
		); err != nil {
			return err
		}
		return insertParticipants(ctx, tx, r.ID, r.Participants)
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "insert", Err: err}
	}

	s.logger.Info(ctx, "Stored report %s (%s) for %d participants", r.ID, r.Title, len(r.Participants))
	return &r, nil
}

func (s *implStore) Get(ctx context.Context, id string) (*Report, error) {
	reports, err := s.query(ctx, `SELECT id, title, content, uploaded_at FROM reports WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNotFound
	}
	return &reports[0], nil
}

func (s *implStore) FindByParticipant(ctx context.Context, participant string) ([]Report, error) {
	return s.query(ctx, `
		SELECT r.id, r.title, r.content, r.uploaded_at
		FROM reports r
		JOIN report_participants p ON p.report_id = r.id
		WHERE p.participant = ?
		ORDER BY r.uploaded_at DESC, r.id`, participant)
}

func (s *implStore) List(ctx context.Context) ([]Report, error) {
	return s.query(ctx, `SELECT id, title, content, uploaded_at FROM reports ORDER BY uploaded_at DESC, id`)
}

func (s *implStore) Update(ctx context.Context, id string, p Patch) (*Report, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		var sets []string
		var args []any
		if p.Title != nil {
			sets, args = append(sets, "title = ?"), append(args, *p.Title)
		}
		if p.Content != nil {
			sets, args = append(sets, "content = ?"), append(args, *p.Content)
		}
		if p.UploadedAt != nil {
			sets, args = append(sets, "uploaded_at = ?"), append(args, formatTime(*p.UploadedAt))
		}
		if len(sets) > 0 {
			args = append(args, id)
			if _, err := tx.ExecContext(ctx, `UPDATE reports SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
				return err
			}
		}

		if p.Participants != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM report_participants WHERE report_id = ?`, id); err != nil {
				return err
			}
			return insertParticipants(ctx, tx, id, dedupe(*p.Participants))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, &apperr.PersistenceError{Op: "update", Err: err}
	}

	return s.Get(ctx, id)
}

func (s *implStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return &apperr.PersistenceError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &apperr.PersistenceError{Op: "delete", Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	s.logger.Info(ctx, "Deleted report %s", id)
	return nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}

func (s *implStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// query loads reports, then their participants in stored order.
func (s *implStore) query(ctx context.Context, q string, args ...any) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	var reports []Report
	for rows.Next() {
		var r Report
		var uploadedAt string
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &uploadedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if r.UploadedAt, err = parseTime(uploadedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("report %s: %w", r.ID, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("read reports: %w", err)
	}
	rows.Close()

	for i := range reports {
		if reports[i].Participants, err = s.participants(ctx, reports[i].ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (s *implStore) participants(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT participant FROM report_participants WHERE report_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func insertParticipants(ctx context.Context, tx *sql.Tx, id string, participants []string) error {
	for i, p := range participants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO report_participants (report_id, participant, position) VALUES (?, ?, ?)`, id, p, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, p := range in {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Times are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
