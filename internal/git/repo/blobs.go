package repo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo implements diff.BlobSource: file content at HEAD, in the index, and
// in the workspace. A file missing from a source yields nil bytes.

// HeadBlob returns the content of path in the HEAD commit's tree.
func (r *Repo) HeadBlob(path string) ([]byte, error) {
	commit, err := r.headCommit()
	if err != nil {
		// An unborn branch has no HEAD content for any path.
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD tree: %w", err)
	}
	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve %s at HEAD: %w", path, err)
	}
	reader, err := file.Blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read %s at HEAD: %w", path, err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// IndexBlob returns the staged content of path.
func (r *Repo) IndexBlob(path string) ([]byte, error) {
	idx, err := r.gitRepo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	entry, err := idx.Entry(path)
	if err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve %s in index: %w", path, err)
	}
	blob, err := object.GetBlob(r.gitRepo.Storer, entry.Hash)
	if err != nil {
		return nil, fmt.Errorf("read staged blob for %s: %w", path, err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read staged blob for %s: %w", path, err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// WorkspaceBlob returns the on-disk content of path.
func (r *Repo) WorkspaceBlob(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.root, path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace file %s: %w", path, err)
	}
	return data, nil
}

// WriteIndexBlob stores content as a blob object and points the index entry
// for path at it, creating the entry for previously untracked files.
func (r *Repo) WriteIndexBlob(path string, content []byte) error {
	obj := r.gitRepo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	writer, err := obj.Writer()
	if err != nil {
		return fmt.Errorf("create blob writer: %w", err)
	}
	if _, err := writer.Write(content); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write blob: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish blob: %w", err)
	}
	hash, err := r.gitRepo.Storer.SetEncodedObject(obj)
	if err != nil {
		return fmt.Errorf("store blob: %w", err)
	}

	idx, err := r.gitRepo.Storer.Index()
	if err != nil {
		return fmt.Errorf("read index: %w", err)
	}
	entry, err := idx.Entry(path)
	if err != nil {
		if !errors.Is(err, index.ErrEntryNotFound) {
			return fmt.Errorf("resolve index entry for %s: %w", path, err)
		}
		idx.Entries = append(idx.Entries, &index.Entry{Name: path, Mode: filemode.Regular})
		entry = idx.Entries[len(idx.Entries)-1]
	}
	entry.Hash = hash
	entry.Size = uint32(len(content))
	entry.ModifiedAt = time.Now()
	if err := r.gitRepo.Storer.SetIndex(idx); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// WriteWorkspaceFile replaces path's on-disk content, preserving the
// existing file mode when the file is present.
func (r *Repo) WriteWorkspaceFile(path string, content []byte) error {
	target := filepath.Join(r.root, path)
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(target, content, mode); err != nil {
		return fmt.Errorf("write workspace file %s: %w", path, err)
	}
	return nil
}
