package httpinfra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	httpdomain "salonathome.in/cli/internal/core/domain/http"
	httpports "salonathome.in/cli/internal/core/ports/http"
)

// StdHttpRequester sends one attempt through a cookie-bearing http.Client and
// bounds it, body read included, by a fixed timeout.
type StdHttpRequester struct {
	client  *http.Client
	timeout time.Duration
}

// NewStdHttpRequester wraps client. The client's own Timeout is left alone;
// the per-attempt bound is applied through the request context instead.
func NewStdHttpRequester(client *http.Client, timeout time.Duration) *StdHttpRequester {
	if client == nil {
		client = &http.Client{}
	}
	return &StdHttpRequester{client: client, timeout: timeout}
}

func (r *StdHttpRequester) Do(ctx context.Context, attempt httpdomain.Attempt) (*httpdomain.Reply, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var body io.Reader
	if attempt.Body != nil {
		body = bytes.NewReader(attempt.Body)
	}

	req, err := http.NewRequestWithContext(ctx, attempt.Method, attempt.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	ApplyHeaders(req, attempt.Headers)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &httpdomain.Reply{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

var _ httpports.HttpRequester = (*StdHttpRequester)(nil)
