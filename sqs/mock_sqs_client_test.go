//nolint:testpackage // Mock must be in sqs package to access unexported types
package sqs

import (
	"context"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// mockSQSClient is a mock implementation of the sqsClient interface for testing.
type mockSQSClient struct {
	sendMessageFunc func(ctx context.Context, input *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func (m *mockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if m.sendMessageFunc != nil {
		return m.sendMessageFunc(ctx, params, optFns...)
	}
	return &sqs.SendMessageOutput{}, nil
}

// mockLogger records debug messages for assertions.
type mockLogger struct {
	fields map[string]any
	debugs []string
}

//nolint:ireturn // Must return interface to implement types.Logger
func (m *mockLogger) WithField(key string, value any) types.Logger {
	if m.fields == nil {
		m.fields = map[string]any{}
	}
	m.fields[key] = value
	return m
}

//nolint:ireturn // Must return interface to implement types.Logger
func (m *mockLogger) WithFields(fields map[string]any) types.Logger {
	for k, v := range fields {
		m.WithField(k, v)
	}
	return m
}
func (m *mockLogger) Debug(msg string)               { m.debugs = append(m.debugs, msg) }
func (m *mockLogger) Debugf(format string, _ ...any) { m.debugs = append(m.debugs, format) }
func (m *mockLogger) Info(_ string)                  {}
func (m *mockLogger) Infof(_ string, _ ...any)       {}
func (m *mockLogger) Warn(_ string)                  {}
func (m *mockLogger) Warnf(_ string, _ ...any)       {}
func (m *mockLogger) Error(_ string)                 {}
func (m *mockLogger) Errorf(_ string, _ ...any)      {}
