package httpdomain

import "net/http"

// Request is the caller-built descriptor for one logical API call. The
// client treats it as read-only for the whole call chain, retries included.
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
}

// HasBody reports whether the method carries a JSON payload.
func (r Request) HasBody() bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
