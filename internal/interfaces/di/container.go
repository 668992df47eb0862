package di

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"salonathome.in/cli/internal/apiclient"
	"salonathome.in/cli/internal/application/services"
	"salonathome.in/cli/internal/config"
	"salonathome.in/cli/internal/core/session"
	"salonathome.in/cli/internal/infrastructure/auth"
	"salonathome.in/cli/internal/logging"
	"salonathome.in/cli/internal/metrics"
)

// expiryGrace is how long Shutdown waits past the dispatch delay for a
// pending logout signal to land.
const expiryGrace = 250 * time.Millisecond

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.ClientMetrics

	Cookies  *auth.CookieStore
	Notifier *apiclient.LogoutNotifier
	Client   *apiclient.Client
	Session  *session.Holder

	Auth     *services.AuthService
	Catalog  *services.CatalogService
	Bookings *services.BookingService
	Promo    *services.PromoService
	Loyalty  *services.LoyaltyService
	Payments *services.PaymentService
	Geo      *services.GeoService

	mu        sync.Mutex
	hooks     []func(reason string)
	expired   chan struct{}
	expireOne sync.Once
}

// NewContainer wires the client stack for cfg. A nil logger is replaced by a no-op.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logging.OrNop(logger),
		expired: make(chan struct{}),
	}

	if err := c.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return c, nil
}

func (c *Container) initializeComponents() error {
	cookies, err := auth.NewCookieStore(c.Config.StateDir)
	if err != nil {
		return err
	}
	c.Cookies = cookies

	c.Registry = prometheus.NewRegistry()
	c.Metrics = metrics.NewClientMetrics(c.Registry)

	c.Notifier = apiclient.NewLogoutNotifier(c.Config.LogoutConfig(), c.Logger)
	c.Notifier.SetMetrics(c.Metrics)

	c.Client = apiclient.New(c.Config.ClientConfig(), c.Notifier,
		apiclient.WithLogger(c.Logger),
		apiclient.WithMetrics(c.Metrics),
		apiclient.WithHTTPClient(&http.Client{Jar: cookies}),
	)

	c.Session = session.NewHolder()
	c.Session.Bind(c.Notifier)
	c.Session.OnExpire(c.handleExpiry)

	c.Auth = services.NewAuthService(c.Client)
	c.Catalog = services.NewCatalogService(c.Client)
	c.Bookings = services.NewBookingService(c.Client)
	c.Promo = services.NewPromoService(c.Client)
	c.Loyalty = services.NewLoyaltyService(c.Client)
	c.Payments = services.NewPaymentService(c.Client, c.Bookings, c.Logger)
	c.Geo = services.NewGeoService(c.Client)

	c.Logger.Debug("container initialized",
		zap.String("api_endpoint", c.Config.APIEndpoint),
		zap.String("cookie_file", cookies.Path()))
	return nil
}

// OnSessionExpired registers fn to run once stored credentials have been
// dropped after a forced logout.
func (c *Container) OnSessionExpired(fn func(reason string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Expired is closed once a forced logout has been fully handled.
func (c *Container) Expired() <-chan struct{} {
	return c.expired
}

func (c *Container) handleExpiry(reason string) {
	if err := c.Cookies.Clear(); err != nil {
		c.Logger.Warn("failed to clear stored session", zap.Error(err))
	}

	c.mu.Lock()
	hooks := append([]func(string){}, c.hooks...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(reason)
	}

	c.expireOne.Do(func() { close(c.expired) })
}

// Shutdown lets a pending logout signal land, persists the cookie jar
// unless the session was dropped, and logs the request metrics.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Notifier.InProgress() {
		wait := time.NewTimer(c.Config.Logout.DispatchDelay + expiryGrace)
		defer wait.Stop()
		select {
		case <-c.expired:
		case <-wait.C:
			c.Logger.Warn("logout signal still pending at shutdown")
		case <-ctx.Done():
		}
	}

	var saveErr error
	select {
	case <-c.expired:
	default:
		if err := c.Cookies.Save(); err != nil {
			saveErr = fmt.Errorf("failed to persist session: %w", err)
		}
	}

	c.logMetrics()
	c.Session.Unbind()
	return saveErr
}

func (c *Container) logMetrics() {
	if !c.Logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	families, err := c.Registry.Gather()
	if err != nil {
		c.Logger.Debug("failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("name", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum_seconds", m.GetHistogram().GetSampleSum()))
			}
			c.Logger.Debug("metric", fields...)
		}
	}
}
