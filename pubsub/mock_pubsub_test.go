package pubsub

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
)

// mockPubSubClient implements pubsubClient for testing.
type mockPubSubClient struct {
	publisherFunc  func(topic string) pubsubPublisher
	defaultPub     pubsubPublisher
	publisherCalls []string
	mu             sync.Mutex
}

func newMockPubSubClient() *mockPubSubClient {
	return &mockPubSubClient{}
}

//nolint:ireturn // Returns interface required by pubsubClient interface
func (m *mockPubSubClient) Publisher(topic string) pubsubPublisher {
	m.mu.Lock()
	m.publisherCalls = append(m.publisherCalls, topic)
	m.mu.Unlock()

	if m.publisherFunc != nil {
		return m.publisherFunc(topic)
	}
	return m.defaultPub
}

// mockPublisher implements pubsubPublisher for testing.
type mockPublisher struct {
	publishFunc           func(ctx context.Context, msg *pubsub.Message) pubsubPublishResult
	stopCalled            atomic.Bool
	enableMessageOrdering bool
	delayThreshold        time.Duration
	countThreshold        int
	byteThreshold         int
	publishedMessages     []*pubsub.Message
	resumedKeys           []string
	mu                    sync.Mutex
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{}
}

//nolint:ireturn // Returns interface required by pubsubPublisher interface
func (m *mockPublisher) Publish(ctx context.Context, msg *pubsub.Message) pubsubPublishResult {
	m.mu.Lock()
	m.publishedMessages = append(m.publishedMessages, msg)
	m.mu.Unlock()

	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	return &mockPublishResult{}
}

func (m *mockPublisher) Stop() {
	m.stopCalled.Store(true)
}

func (m *mockPublisher) ResumePublish(key string) {
	m.mu.Lock()
	m.resumedKeys = append(m.resumedKeys, key)
	m.mu.Unlock()
}

func (m *mockPublisher) SetEnableMessageOrdering(enabled bool) {
	m.mu.Lock()
	m.enableMessageOrdering = enabled
	m.mu.Unlock()
}

func (m *mockPublisher) SetDelayThreshold(d time.Duration) {
	m.mu.Lock()
	m.delayThreshold = d
	m.mu.Unlock()
}

func (m *mockPublisher) SetCountThreshold(n int) {
	m.mu.Lock()
	m.countThreshold = n
	m.mu.Unlock()
}

func (m *mockPublisher) SetByteThreshold(n int) {
	m.mu.Lock()
	m.byteThreshold = n
	m.mu.Unlock()
}

// mockPublishResult implements pubsubPublishResult for testing.
type mockPublishResult struct {
	serverID string
	err      error
}

func (m *mockPublishResult) Get(_ context.Context) (string, error) {
	return m.serverID, m.err
}

// mockLogger implements types.Logger for testing.
type mockLogger struct {
	debugLogs []string
	errorLogs []string
	fields    map[string]any
	mu        sync.Mutex
}

func newMockLogger() *mockLogger {
	return &mockLogger{
		fields: make(map[string]any),
	}
}

func (m *mockLogger) Debug(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debugLogs = append(m.debugLogs, msg)
}

func (m *mockLogger) Debugf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debugLogs = append(m.debugLogs, format)
}

func (m *mockLogger) Info(_ string) {}

func (m *mockLogger) Infof(_ string, _ ...any) {}

func (m *mockLogger) Warn(_ string) {}

func (m *mockLogger) Warnf(_ string, _ ...any) {}

func (m *mockLogger) Error(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorLogs = append(m.errorLogs, msg)
}

func (m *mockLogger) Errorf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorLogs = append(m.errorLogs, format)
}

//nolint:ireturn // Must return interface to implement types.Logger
func (m *mockLogger) WithField(key string, value any) types.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	newLogger := newMockLogger()
	maps.Copy(newLogger.fields, m.fields)
	newLogger.fields[key] = value
	return newLogger
}

//nolint:ireturn // Must return interface to implement types.Logger
func (m *mockLogger) WithFields(fields map[string]any) types.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	newLogger := newMockLogger()
	maps.Copy(newLogger.fields, m.fields)
	maps.Copy(newLogger.fields, fields)
	return newLogger
}
