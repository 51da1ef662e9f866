package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gitscope/internal/storage/migrate"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := migrate.Up(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRepositoryUpsertAndList(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, UpsertParams{Path: "/tmp/alpha", DisplayName: "alpha"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if first.DisplayName != "alpha" {
		t.Fatalf("display name = %q, want alpha", first.DisplayName)
	}

	// Upserting the same path updates in place instead of duplicating.
	renamed, err := repo.Upsert(ctx, UpsertParams{Path: "/tmp/alpha", DisplayName: "renamed"})
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if renamed.ID != first.ID {
		t.Fatalf("id changed on upsert: %d != %d", renamed.ID, first.ID)
	}

	if _, err := repo.Upsert(ctx, UpsertParams{Path: "/tmp/beta", DisplayName: "beta"}); err != nil {
		t.Fatalf("upsert beta: %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
}

func TestRepositoryMarkOpenedOrdersList(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	a, err := repo.Upsert(ctx, UpsertParams{Path: "/tmp/a", DisplayName: "a"})
	if err != nil {
		t.Fatalf("upsert a: %v", err)
	}
	if _, err := repo.Upsert(ctx, UpsertParams{Path: "/tmp/b", DisplayName: "b"}); err != nil {
		t.Fatalf("upsert b: %v", err)
	}

	if err := repo.MarkOpened(ctx, a.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("mark opened: %v", err)
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if entries[0].Path != "/tmp/a" {
		t.Fatalf("most recently opened first, got %q", entries[0].Path)
	}
	if entries[0].LastOpenedAt.IsZero() {
		t.Fatalf("expected last opened timestamp")
	}
}

func TestRepositoryGetAndDelete(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	entry, err := repo.Upsert(ctx, UpsertParams{Path: "/tmp/project", DisplayName: "project"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	byPath, err := repo.GetByPath(ctx, "/tmp/project")
	if err != nil {
		t.Fatalf("get by path: %v", err)
	}
	if byPath.ID != entry.ID {
		t.Fatalf("get by path id = %d, want %d", byPath.ID, entry.ID)
	}

	byID, err := repo.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Path != "/tmp/project" {
		t.Fatalf("get by id path = %q", byID.Path)
	}

	if err := repo.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, entry.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get deleted = %v, want ErrNoRows", err)
	}
	if err := repo.Delete(ctx, entry.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("delete missing = %v, want ErrNoRows", err)
	}
}

func TestRepositoryNotFoundSentinel(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get by id = %v, want ErrNoRows", err)
	}
	if _, err := repo.GetByPath(ctx, "/tmp/nowhere"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("get by path = %v, want ErrNoRows", err)
	}
	if err := repo.MarkOpened(ctx, 99, time.Now()); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("mark opened = %v, want ErrNoRows", err)
	}
}

func TestServiceRegisterDefaultsDisplayName(t *testing.T) {
	svc := NewService(NewRepository(openTestDB(t)), nil)
	ctx := context.Background()

	entry, err := svc.Register(ctx, RegisterRequest{Path: "/home/dev/gitscope"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if entry.DisplayName != "gitscope" {
		t.Fatalf("display name = %q, want gitscope", entry.DisplayName)
	}

	if _, err := svc.Register(ctx, RegisterRequest{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
