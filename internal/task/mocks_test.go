package task

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/events"
	"github.com/pulsefeed/pulse-api/internal/platform/mediaengine"
	"github.com/pulsefeed/pulse-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}

// memTaskStore is an in-memory TaskStore that stores copies, so tests
// observe exactly what was written, not later pointer mutations.
type memTaskStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{rows: make(map[uuid.UUID]domain.Task)}
}

func (s *memTaskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[t.ID] = *t
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := row
	return &copied, nil
}

func (s *memTaskStore) Update(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[t.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.rows[t.ID] = *t
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *memTaskStore) List(_ context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, row := range s.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		copied := row
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memTaskStore) mustGet(t *testing.T, id uuid.UUID) *domain.Task {
	t.Helper()
	row, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	return row
}

type memTrendStore struct {
	mu       sync.Mutex
	inserted []*domain.Trend
	err      error
}

func (s *memTrendStore) InsertMany(_ context.Context, trends []*domain.Trend) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, trends...)
	return nil
}

func (s *memTrendStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Trend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tr := range s.inserted {
		if tr.ID == id {
			return tr, nil
		}
	}
	return nil, store.ErrTrendNotFound
}

func (s *memTrendStore) List(_ context.Context, _ store.TrendSort, _ int) ([]*domain.Trend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Trend(nil), s.inserted...), nil
}

type memContentStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Content
	err  error
}

func newMemContentStore() *memContentStore {
	return &memContentStore{rows: make(map[uuid.UUID]domain.Content)}
}

func (s *memContentStore) Create(_ context.Context, c *domain.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *memContentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, store.ErrContentNotFound
	}
	copied := row
	return &copied, nil
}

func (s *memContentStore) Update(_ context.Context, c *domain.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[c.ID]; !ok {
		return store.ErrContentNotFound
	}
	s.rows[c.ID] = *c
	return nil
}

func (s *memContentStore) List(_ context.Context, _ int) ([]*domain.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Content
	for _, row := range s.rows {
		copied := row
		out = append(out, &copied)
	}
	return out, nil
}

// fakeCollector returns canned candidates or an error.
type fakeCollector struct {
	candidates []domain.TrendCandidate
	err        error
	gotSources []string
}

func (c *fakeCollector) Collect(_ context.Context, sources []string) ([]domain.TrendCandidate, error) {
	c.gotSources = sources
	if c.err != nil {
		return nil, c.err
	}
	return c.candidates, nil
}

// fakeEmitter records emitted events.
type fakeEmitter struct {
	mu     sync.Mutex
	events []*events.TaskRequestEvent
	err    error
}

func (e *fakeEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

// fakeGenerator returns a canned script.
type fakeGenerator struct {
	script string
	err    error
}

func (g *fakeGenerator) GenerateScript(_ context.Context, _ *domain.Content) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.script, nil
}

// stubExecutor runs an arbitrary function as its Execute body.
type stubExecutor struct {
	id       uuid.UUID
	taskType domain.TaskType
	run      func(ctx context.Context) error
}

func (e *stubExecutor) ID() uuid.UUID         { return e.id }
func (e *stubExecutor) Type() domain.TaskType { return e.taskType }

func (e *stubExecutor) Execute(ctx context.Context) error {
	if e.run == nil {
		return nil
	}
	return e.run(ctx)
}

// stubFactory builds executors via a caller-supplied function.
type stubFactory struct {
	taskType domain.TaskType
	build    func(id uuid.UUID) (Executor, error)
}

func (f *stubFactory) TaskType() domain.TaskType { return f.taskType }

func (f *stubFactory) NewExecutor(id uuid.UUID) (Executor, error) {
	return f.build(id)
}

// fakeSynthesizer records the last request and returns a canned result.
type fakeSynthesizer struct {
	result *mediaengine.TTSResult
	err    error
	got    mediaengine.TTSRequest
}

func (s *fakeSynthesizer) Synthesize(_ context.Context, req mediaengine.TTSRequest) (*mediaengine.TTSResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// fakeRenderer records the last request and returns a canned result.
type fakeRenderer struct {
	result *mediaengine.VideoResult
	err    error
	got    mediaengine.VideoRequest
}

func (r *fakeRenderer) Render(_ context.Context, req mediaengine.VideoRequest) (*mediaengine.VideoResult, error) {
	r.got = req
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

var (
	_ store.TaskStore              = (*memTaskStore)(nil)
	_ store.TrendStore             = (*memTrendStore)(nil)
	_ store.ContentStore           = (*memContentStore)(nil)
	_ mediaengine.AudioSynthesizer = (*fakeSynthesizer)(nil)
	_ mediaengine.VideoRenderer    = (*fakeRenderer)(nil)
)
