package httpports

import (
	"context"

	httpdomain "salonathome.in/cli/internal/core/domain/http"
)

// HttpRequester performs exactly one network attempt. Retries and auth
// recovery live above this port.
type HttpRequester interface {
	Do(ctx context.Context, attempt httpdomain.Attempt) (*httpdomain.Reply, error)
}
