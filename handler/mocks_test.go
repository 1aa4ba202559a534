package handler_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
)

type mockDB struct {
	saveCalls []*types.Post

	initFunc        func(ctx context.Context, skipSchemaValidation bool) error
	savePostFunc    func(ctx context.Context, post *types.Post) error
	savePostsFunc   func(ctx context.Context, posts ...*types.Post) error
	listRecordsFunc func(ctx context.Context) ([]*types.Record, error)
	findPostFunc    func(ctx context.Context, id string) (*types.Post, error)
	dropAllDataFunc func(ctx context.Context) error
}

func (m *mockDB) Init(ctx context.Context, skipSchemaValidation bool) error {
	if m.initFunc != nil {
		return m.initFunc(ctx, skipSchemaValidation)
	}
	return nil
}

func (m *mockDB) SavePost(ctx context.Context, post *types.Post) error {
	m.saveCalls = append(m.saveCalls, post)
	if m.savePostFunc != nil {
		return m.savePostFunc(ctx, post)
	}
	return nil
}

func (m *mockDB) SavePosts(ctx context.Context, posts ...*types.Post) error {
	if m.savePostsFunc != nil {
		return m.savePostsFunc(ctx, posts...)
	}
	return nil
}

func (m *mockDB) ListRecords(ctx context.Context) ([]*types.Record, error) {
	if m.listRecordsFunc != nil {
		return m.listRecordsFunc(ctx)
	}
	return nil, nil
}

func (m *mockDB) FindPost(ctx context.Context, id string) (*types.Post, error) {
	if m.findPostFunc != nil {
		return m.findPostFunc(ctx, id)
	}
	return nil, types.ErrNotFound
}

func (m *mockDB) DropAllData(ctx context.Context) error {
	if m.dropAllDataFunc != nil {
		return m.dropAllDataFunc(ctx)
	}
	return nil
}

type notification struct {
	target string
	event  *types.PostEvent
}

type mockNotifier struct {
	prefix string
	err    error

	mu    sync.Mutex
	calls []notification
}

func (m *mockNotifier) ShouldHandle(_ context.Context, target string) bool {
	return len(target) >= len(m.prefix) && target[:len(m.prefix)] == m.prefix
}

func (m *mockNotifier) Notify(_ context.Context, target string, event *types.PostEvent, _ types.Logger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, notification{target: target, event: event})

	return m.err
}

func (m *mockNotifier) targets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	targets := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		targets = append(targets, c.target)
	}

	return targets
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

// recordingLogger collects entries from itself and every derived logger.
type recordingLogger struct {
	fields  map[string]any
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{
		fields:  map[string]any{},
		mu:      &sync.Mutex{},
		entries: &[]logEntry{},
	}
}

func (l *recordingLogger) derive(fields map[string]any) *recordingLogger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{fields: merged, mu: l.mu, entries: l.entries}
}

func (l *recordingLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, fields: l.fields})
}

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), *l.entries...)
}

func (l *recordingLogger) byLevel(level string) []logEntry {
	var out []logEntry
	for _, e := range l.all() {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

//nolint:ireturn
func (l *recordingLogger) WithField(key string, value any) types.Logger {
	return l.derive(map[string]any{key: value})
}

//nolint:ireturn
func (l *recordingLogger) WithFields(fields map[string]any) types.Logger {
	return l.derive(fields)
}

func (l *recordingLogger) Debug(msg string) { l.log("debug", msg) }
func (l *recordingLogger) Debugf(format string, args ...any) {
	l.log("debug", fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Info(msg string) { l.log("info", msg) }
func (l *recordingLogger) Infof(format string, args ...any) {
	l.log("info", fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warn(msg string) { l.log("warn", msg) }
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.log("warn", fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Error(msg string) { l.log("error", msg) }
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.log("error", fmt.Sprintf(format, args...))
}

// memDB is a minimal in-memory store keyed by PK and SK.
type memDB struct {
	mu      sync.Mutex
	records map[[2]string]*types.Record
	order   [][2]string
}

func newMemDB() *memDB {
	return &memDB{records: map[[2]string]*types.Record{}}
}

func (m *memDB) Init(_ context.Context, _ bool) error { return nil }

func (m *memDB) SavePost(_ context.Context, post *types.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range post.Records() {
		key := [2]string{r.PK, r.SK}
		if _, ok := m.records[key]; !ok {
			m.order = append(m.order, key)
		}
		m.records[key] = r
	}

	return nil
}

func (m *memDB) SavePosts(ctx context.Context, posts ...*types.Post) error {
	for _, p := range posts {
		if err := m.SavePost(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *memDB) ListRecords(_ context.Context) ([]*types.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Record, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.records[key])
	}

	return out, nil
}

func (m *memDB) FindPost(_ context.Context, id string) (*types.Post, error) {
	if err := types.ValidatePostID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pk := types.PostPartitionKey(id)
	var records []*types.Record
	for _, key := range m.order {
		if key[0] == pk {
			records = append(records, m.records[key])
		}
	}

	return types.PostFromRecords(records)
}

func (m *memDB) DropAllData(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = map[[2]string]*types.Record{}
	m.order = nil

	return nil
}
