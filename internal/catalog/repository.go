// Package catalog stores the recently opened repositories list.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Entry is one stored repository record.
type Entry struct {
	ID           int64     `json:"id"`
	Path         string    `json:"path"`
	DisplayName  string    `json:"displayName,omitempty"`
	LastOpenedAt time.Time `json:"lastOpenedAt,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UpsertParams struct {
	Path        string
	DisplayName string
	LastOpened  *time.Time
}

func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, path, display_name, last_opened_at, created_at, updated_at
		FROM repositories
		ORDER BY COALESCE(last_opened_at, updated_at) DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query repositories: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan repository: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repositories: %w", err)
	}
	return entries, nil
}

func (r *Repository) Upsert(ctx context.Context, params UpsertParams) (Entry, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO repositories (path, display_name, last_opened_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			display_name = excluded.display_name,
			last_opened_at = COALESCE(excluded.last_opened_at, repositories.last_opened_at),
			updated_at = CURRENT_TIMESTAMP
	`, params.Path, nullIfEmpty(params.DisplayName), params.LastOpened)
	if err != nil {
		return Entry{}, fmt.Errorf("upsert repository: %w", err)
	}
	return r.GetByPath(ctx, params.Path)
}

func (r *Repository) GetByPath(ctx context.Context, path string) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, path, display_name, last_opened_at, created_at, updated_at
		FROM repositories
		WHERE path = ?
	`, path)
	entry, err := scanEntry(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, fmt.Errorf("repository %s not found: %w", path, sql.ErrNoRows)
		}
		return Entry{}, fmt.Errorf("select repository: %w", err)
	}
	return entry, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, path, display_name, last_opened_at, created_at, updated_at
		FROM repositories
		WHERE id = ?
	`, id)
	entry, err := scanEntry(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, fmt.Errorf("repository %d not found: %w", id, sql.ErrNoRows)
		}
		return Entry{}, fmt.Errorf("select repository by id: %w", err)
	}
	return entry, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM repositories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete repository: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("repository %d not found: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (r *Repository) MarkOpened(ctx context.Context, id int64, openedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE repositories
		SET last_opened_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, openedAt, id)
	if err != nil {
		return fmt.Errorf("update last_opened_at: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("repository %d not found: %w", id, sql.ErrNoRows)
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var (
		entry   Entry
		display sql.NullString
		last    sql.NullTime
	)
	if err := scan(&entry.ID, &entry.Path, &display, &last, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return Entry{}, err
	}
	if display.Valid {
		entry.DisplayName = display.String
	}
	if last.Valid {
		entry.LastOpenedAt = last.Time
	}
	return entry, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
