package consolidate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-cultivation/internal/store"
)

type fakeRunner struct {
	prompt   string
	out      string
	err      error
	ops      []string
	requests []string
}

func (f *fakeRunner) Prompt(op string) string { return f.prompt }

func (f *fakeRunner) Run(_ context.Context, op, request string) (string, error) {
	f.ops = append(f.ops, op)
	f.requests = append(f.requests, request)
	return f.out, f.err
}

func newStore(t *testing.T, records map[string]string) *store.FileStore {
	t.Helper()
	s := store.NewFileStore(filepath.Join(t.TempDir(), ".memory"))
	for name, content := range records {
		require.NoError(t, s.Write(context.Background(), s.ID(name), content))
	}
	return s
}
