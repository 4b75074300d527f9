package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skilltrend-engine/internal/domain"
)

// JobRow is one analyzed listing stored alongside its snapshot.
type JobRow struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
	Tags     []string `json:"tags"`
}

// timeLayout is fixed width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type ListSnapshotsOpts struct {
	Role  string // empty = all roles
	Limit int
}

// SaveSnapshot stores a snapshot and its job rows in one transaction and
// returns the new snapshot id.
func SaveSnapshot(ctx context.Context, db *sql.DB, s domain.Snapshot, jobs []JobRow) (int64, error) {
	skillsB, err := json.Marshal(nonNilCounts(s.Skills))
	if err != nil {
		return 0, err
	}
	at := s.At
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO snapshots(role, provider, total_jobs, skills, at)
VALUES(?,?,?,?,?);`,
		strings.TrimSpace(s.Role), s.Provider, s.TotalJobs, string(skillsB), at.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, j := range jobs {
		sk, _ := json.Marshal(nonNil(j.Skills))
		tg, _ := json.Marshal(nonNil(j.Tags))
		if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot_jobs(snapshot_id, title, company, location, skills, tags)
VALUES(?,?,?,?,?,?);`,
			id, j.Title, j.Company, j.Location, string(sk), string(tg)); err != nil {
			return 0, fmt.Errorf("insert snapshot job: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSnapshots returns the newest snapshots first.
func ListSnapshots(ctx context.Context, db *sql.DB, opts ListSnapshotsOpts) ([]domain.Snapshot, error) {
	if opts.Limit <= 0 || opts.Limit > 500 {
		opts.Limit = 50
	}

	where := ""
	args := []any{}
	if r := strings.TrimSpace(opts.Role); r != "" {
		where = "WHERE role = ?"
		args = append(args, r)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, role, provider, total_jobs, skills, at
FROM snapshots
%s
ORDER BY at DESC, id DESC
LIMIT ?;
`, where)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Snapshot{}
	for rows.Next() {
		var s domain.Snapshot
		var skillsJSON, atStr string
		if err := rows.Scan(&s.ID, &s.Role, &s.Provider, &s.TotalJobs, &skillsJSON, &atStr); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(skillsJSON), &s.Skills)
		s.At, _ = time.Parse(timeLayout, atStr)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func ListSnapshotJobs(ctx context.Context, db *sql.DB, snapshotID int64) ([]JobRow, error) {
	rows, err := db.QueryContext(ctx, `
SELECT title, company, location, skills, tags
FROM snapshot_jobs
WHERE snapshot_id = ?
ORDER BY id;`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobRow
	for rows.Next() {
		var j JobRow
		var sk, tg string
		if err := rows.Scan(&j.Title, &j.Company, &j.Location, &sk, &tg); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(sk), &j.Skills)
		_ = json.Unmarshal([]byte(tg), &j.Tags)
		out = append(out, j)
	}
	return out, rows.Err()
}

// CleanupOldSnapshots drops snapshots (and their jobs) older than maxAge.
func CleanupOldSnapshots(ctx context.Context, db *sql.DB, maxAge time.Duration) (deleted int64, err error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(timeLayout)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM snapshot_jobs
WHERE snapshot_id IN (SELECT id FROM snapshots WHERE at < ?);`, cutoff); err != nil {
		return 0, fmt.Errorf("cleanup old snapshot jobs: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE at < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup old snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func nonNilCounts(xs []domain.SkillCount) []domain.SkillCount {
	if xs == nil {
		return []domain.SkillCount{}
	}
	return xs
}

// DeleteSnapshot removes one snapshot and its jobs. It reports false when
// the id does not exist.
func DeleteSnapshot(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_jobs WHERE snapshot_id = ?;`, id); err != nil {
		return false, fmt.Errorf("delete snapshot jobs: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete snapshot: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, tx.Commit()
}
