package httpinfra

import "net/http"

// DefaultHeaders are sent on every API call unless the caller overrides them.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}

// MergeHeaders layers extra over base. Keys are canonicalized first so that a
// caller's "content-type" replaces the default "Content-Type".
func MergeHeaders(base map[string]string, extra map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range base {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range extra {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}

// ApplyHeaders copies headers onto req, replacing existing values.
func ApplyHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
