package httpdomain

import "strings"

// BackendEndpoint describes the single backend target used by the client.
type BackendEndpoint struct {
	BaseURL     string
	RefreshPath string
	UserAgent   string
}

// Resolve returns path unchanged when it is already absolute, otherwise it
// joins path onto BaseURL with exactly one slash between them.
func (e BackendEndpoint) Resolve(path string) string {
	if IsAbsoluteURL(path) {
		return path
	}
	base := strings.TrimRight(e.BaseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// IsAbsoluteURL reports whether path carries its own scheme.
func IsAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
