package httpdomain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReply_IsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"text/plain", false},
		{"text/html; charset=utf-8", false},
		{"", false},
		{";;;", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			r := &Reply{Status: 200, Header: http.Header{}}
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, r.IsJSON())
		})
	}
}

func TestReply_OK(t *testing.T) {
	assert.True(t, (&Reply{Status: 200}).OK())
	assert.True(t, (&Reply{Status: 204}).OK())
	assert.False(t, (&Reply{Status: 301}).OK())
	assert.False(t, (&Reply{Status: 401}).OK())
}
