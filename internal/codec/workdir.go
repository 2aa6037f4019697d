package codec

import (
	"fmt"
	"os"
	"path/filepath"
)

// workdir is a scratch directory scoped to a single external round trip.
// os.MkdirTemp gives every round trip a unique tree, so concurrent
// evaluations never collide. Close removes the whole tree; adapters must
// release it on every path, including tool failures.
type workdir struct {
	root string
}

func newWorkdir(pattern string) (*workdir, error) {
	root, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &workdir{root: root}, nil
}

func (w *workdir) path(name string) string {
	return filepath.Join(w.root, name)
}

func (w *workdir) Close() error {
	return os.RemoveAll(w.root)
}
