package archive

import (
	"context"
	"os"
	"path/filepath"

	"github.com/primeshield/primeshield/internal/resource"
)

// Store is a write-only sink for run artifacts. Artifacts are immutable:
// a name is written exactly once per run.
type Store interface {
	// Put writes the artifact atomically under the given name.
	Put(ctx context.Context, name string, data []byte) error
}

// Local stores artifacts in a directory on the local filesystem.
type Local struct {
	dir string
	rc  *resource.Controller
}

// NewLocal creates a directory-backed store, creating dir if needed.
func NewLocal(dir string, rc *resource.Controller) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir, rc: rc}, nil
}

// Put writes to a temp file and renames, so readers never observe a
// partially written artifact.
func (l *Local) Put(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(l.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(name)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := resource.NewRateLimitedWriter(ctx, tmp, l.rc)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
