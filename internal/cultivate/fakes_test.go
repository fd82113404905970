package cultivate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/memory-cultivation/internal/approval"
	"github.com/rcliao/memory-cultivation/internal/consolidate"
	"github.com/rcliao/memory-cultivation/internal/model"
	"github.com/rcliao/memory-cultivation/internal/store"
)

// memStore is an in-memory store that counts mutations.
type memStore struct {
	ids      []string
	content  map[string]string
	writes   []string
	deletes  []string
	writeErr error
}

func newMemStore(n int) *memStore {
	s := &memStore{content: make(map[string]string)}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("m%02d-2024-12-%02d.md", i, (i-1)%28+1)
		s.ids = append(s.ids, id)
		s.content[id] = fmt.Sprintf("memory %d", i)
	}
	return s
}

func (s *memStore) List(context.Context) ([]string, error) {
	return append([]string(nil), s.ids...), nil
}

func (s *memStore) Read(_ context.Context, id string) (string, error) {
	c, ok := s.content[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return c, nil
}

func (s *memStore) Write(_ context.Context, id, content string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, ok := s.content[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.content[id] = content
	s.writes = append(s.writes, id)
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	if _, ok := s.content[id]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	delete(s.content, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	s.deletes = append(s.deletes, id)
	return nil
}

func (s *memStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.content[id]
	return ok, nil
}

func (s *memStore) ID(name string) string { return name }
func (s *memStore) Location() string { return ".memory" }
func (s *memStore) Close() error { return nil }

type fakeSummarizer struct {
	calls [][]string
	err   error
}

func (f *fakeSummarizer) Summarize(_ context.Context, ids []string) consolidate.Result {
	f.calls = append(f.calls, ids)
	if f.err != nil {
		return consolidate.Result{Err: f.err}
	}
	return consolidate.Result{Text: fmt.Sprintf("summary %d of %s", len(f.calls), strings.Join(ids, ","))}
}

// scriptedApprover answers with decisions in order, then approves.
type scriptedApprover struct {
	decisions []model.Decision
	texts     []string
	infos     []approval.BatchInfo
}

func (a *scriptedApprover) Decide(text string, info approval.BatchInfo) (model.Decision, error) {
	a.texts = append(a.texts, text)
	a.infos = append(a.infos, info)
	if len(a.decisions) == 0 {
		return model.Approve(nil), nil
	}
	d := a.decisions[0]
	a.decisions = a.decisions[1:]
	return d, nil
}

func decisions(actions ...model.Action) []model.Decision {
	out := make([]model.Decision, len(actions))
	for i, a := range actions {
		out[i] = model.Decision{Action: a}
	}
	return out
}

type fakeSuggester struct {
	memories     [][]string
	instructions []string
}

func (f *fakeSuggester) Suggest(_ context.Context, memories []string, instructions string) string {
	f.memories = append(f.memories, memories)
	f.instructions = append(f.instructions, instructions)
	return "suggestions"
}

type fakeCommitter struct {
	paths   [][]string
	message string
	err     error
}

func (f *fakeCommitter) StageAndCommit(paths []string, message string) (string, error) {
	f.paths = append(f.paths, paths)
	f.message = message
	return "deadbeef", f.err
}

// countingPersister wraps a real persister and counts calls.
type countingPersister struct {
	inner *consolidate.Persister
	calls int
}

func (p *countingPersister) Persist(ctx context.Context, content string, originals []string, at time.Time) (string, error) {
	p.calls++
	return p.inner.Persist(ctx, content, originals, at)
}
