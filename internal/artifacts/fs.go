package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS stores artifacts under a root directory of an afero filesystem.
type FS struct {
	fs   afero.Fs
	root string
}

// NewFS creates a store rooted at dir on the OS filesystem.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		return nil, errors.New("artifact directory is required")
	}
	return NewFSWith(afero.NewOsFs(), dir)
}

// NewFSWith creates a store on an arbitrary afero filesystem.
func NewFSWith(fs afero.Fs, dir string) (*FS, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &FS{fs: fs, root: dir}, nil
}

// Put writes data to a temporary file and renames it into place, so a failed
// write never leaves a partial artifact under key.
func (s *FS) Put(ctx context.Context, key string, data []byte, _ string) error {
	name, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(name), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temporary artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("write temporary artifact: %w", err)
	}

	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("close temporary artifact: %w", err)
	}

	if err := ctx.Err(); err != nil {
		s.fs.Remove(tmpName)
		return err
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("store artifact: %w", err)
	}

	return nil
}

func (s *FS) Delete(_ context.Context, key string) error {
	name, err := s.path(key)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete artifact: %w", err)
	}

	return nil
}

// Exists reports whether an artifact is stored under key.
func (s *FS) Exists(key string) (bool, error) {
	name, err := s.path(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

func (s *FS) path(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
