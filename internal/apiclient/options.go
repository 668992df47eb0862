package apiclient

import (
	httpdomain "salonathome.in/cli/internal/core/domain/http"
)

// RequestOption adjusts a single call.
type RequestOption func(*httpdomain.Request)

// WithHeader sets one header, overriding any default.
func WithHeader(key, value string) RequestOption {
	return func(r *httpdomain.Request) {
		if r.Headers == nil {
			r.Headers = map[string]string{}
		}
		r.Headers[key] = value
	}
}

// WithHeaders sets several headers at once.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *httpdomain.Request) {
		for k, v := range headers {
			WithHeader(k, v)(r)
		}
	}
}

// WithRequestID pins the X-Request-Id sent on every attempt of the call.
func WithRequestID(id string) RequestOption {
	return WithHeader(requestIDHeader, id)
}

func buildRequest(method, path string, body any, opts []RequestOption) httpdomain.Request {
	req := httpdomain.Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}
