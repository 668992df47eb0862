package httpdomain

import (
	"mime"
	"net/http"
)

// Attempt is one concrete wire request derived from a Request.
type Attempt struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Reply is the fully-read outcome of an Attempt.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Reply) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsJSON reports whether the reply declares a JSON media type.
func (r *Reply) IsJSON() bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || (len(mediaType) > 5 && mediaType[len(mediaType)-5:] == "+json")
}
