package httpdomain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendEndpoint_Resolve(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"RelativeWithSlash", "https://api.example.com/api", "/bookings", "https://api.example.com/api/bookings"},
		{"RelativeWithoutSlash", "https://api.example.com/api", "bookings", "https://api.example.com/api/bookings"},
		{"BaseTrailingSlash", "https://api.example.com/api/", "/bookings", "https://api.example.com/api/bookings"},
		{"AbsoluteHTTPS", "https://api.example.com", "https://maps.example.com/geo", "https://maps.example.com/geo"},
		{"AbsoluteHTTP", "https://api.example.com", "http://localhost:9000/x", "http://localhost:9000/x"},
		{"EmptyPath", "https://api.example.com/", "", "https://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := BackendEndpoint{BaseURL: tt.base}
			assert.Equal(t, tt.want, e.Resolve(tt.path))
		})
	}
}

func TestRequest_HasBody(t *testing.T) {
	assert.True(t, Request{Method: http.MethodPost}.HasBody())
	assert.True(t, Request{Method: http.MethodPut}.HasBody())
	assert.True(t, Request{Method: http.MethodPatch}.HasBody())
	assert.False(t, Request{Method: http.MethodGet}.HasBody())
	assert.False(t, Request{Method: http.MethodDelete}.HasBody())
}
