package services

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"salonathome.in/cli/internal/apiclient"
)

// MockRequester records calls by method, path and body. Request options
// are not matched.
type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) result(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	switch v := args.Get(0).(type) {
	case string:
		return json.RawMessage(v), args.Error(1)
	default:
		return v.(json.RawMessage), args.Error(1)
	}
}

func (m *MockRequester) Get(ctx context.Context, path string, _ ...apiclient.RequestOption) (json.RawMessage, error) {
	return m.result(m.Called(ctx, path))
}

func (m *MockRequester) Post(ctx context.Context, path string, body any, _ ...apiclient.RequestOption) (json.RawMessage, error) {
	return m.result(m.Called(ctx, path, body))
}

func (m *MockRequester) Put(ctx context.Context, path string, body any, _ ...apiclient.RequestOption) (json.RawMessage, error) {
	return m.result(m.Called(ctx, path, body))
}

func (m *MockRequester) Patch(ctx context.Context, path string, body any, _ ...apiclient.RequestOption) (json.RawMessage, error) {
	return m.result(m.Called(ctx, path, body))
}

func (m *MockRequester) Delete(ctx context.Context, path string, _ ...apiclient.RequestOption) (json.RawMessage, error) {
	return m.result(m.Called(ctx, path))
}

var _ apiclient.Requester = (*MockRequester)(nil)

func apiError(status int, message string) error {
	return &apiclient.Error{Status: status, Message: message}
}

func sessionExpired() error {
	return &apiclient.Error{
		Status:         401,
		Message:        apiclient.MsgSessionExpired,
		SessionExpired: true,
		Err:            apiclient.ErrSessionExpired,
	}
}
