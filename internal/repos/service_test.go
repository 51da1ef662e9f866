package repos

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"gitscope/internal/catalog"
	"gitscope/internal/diffview"
	"gitscope/internal/storage/migrate"
)

type recordingSurface struct {
	documents []string
}

func (s *recordingSurface) Load(document, base string) {
	s.documents = append(s.documents, document)
}

func initGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitRepo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\n"), 0o644))
	wt, err := gitRepo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func newTestCatalog(t *testing.T) *catalog.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrate.Up(db))
	return catalog.NewService(catalog.NewRepository(db), nil)
}

func newTestService(t *testing.T) (*Service, *catalog.Service, *recordingSurface) {
	t.Helper()
	cat := newTestCatalog(t)
	surface := &recordingSurface{}
	renderer := diffview.NewRenderer(diffview.Options{ContextLines: 3, TabWidth: 4}, surface, nil)
	svc := NewService(cat, renderer, nil, nil, nil, nil)
	return svc, cat, surface
}

func TestServiceOpenActivatesRepository(t *testing.T) {
	svc, cat, _ := newTestService(t)
	dir := initGitRepo(t)

	entry, err := cat.Register(context.Background(), catalog.RegisterRequest{Path: dir})
	require.NoError(t, err)

	opened, err := svc.Open(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.ID, opened.ID)
	require.Equal(t, "master", opened.Ref)

	_, id, ok := svc.Current()
	require.True(t, ok)
	require.Equal(t, entry.ID, id)

	// Opening marks the entry as recently opened.
	refreshed, err := cat.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	require.False(t, refreshed.LastOpenedAt.IsZero())
}

func TestServiceOpenUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Open(context.Background(), 42)
	require.Error(t, err)
	// Missing stays distinguishable from storage failure.
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestServiceLogAndConfig(t *testing.T) {
	svc, cat, _ := newTestService(t)
	dir := initGitRepo(t)

	entry, err := cat.Register(context.Background(), catalog.RegisterRequest{Path: dir})
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), entry.ID)
	require.NoError(t, err)

	commits, err := svc.Log(10)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, "initial commit", commits[0].Summary)

	require.NoError(t, svc.SetConfigValue("gitscope.diff.context", "6"))
	value, err := svc.ConfigValue("gitscope.diff.context")
	require.NoError(t, err)
	require.Equal(t, "6", value)
}

func TestServiceRootFallsBackToCatalog(t *testing.T) {
	svc, cat, _ := newTestService(t)
	dir := initGitRepo(t)

	entry, err := cat.Register(context.Background(), catalog.RegisterRequest{Path: dir})
	require.NoError(t, err)

	root, err := svc.Root(entry.ID)
	require.NoError(t, err)
	require.Equal(t, dir, root)
}

func TestServiceRequiresOpenRepository(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Log(5)
	require.Error(t, err)
	_, err = svc.CurrentRef()
	require.Error(t, err)
	_, err = svc.ConfigValue("user.name")
	require.Error(t, err)

	// A change event for an unopened repository is ignored.
	svc.HandleChange(99)
}
