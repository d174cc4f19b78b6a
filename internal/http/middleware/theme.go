package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmylchreest/themeflex/internal/theme"
)

// ThemeConfig configures the per-request theme store.
type ThemeConfig struct {
	Default          theme.ID
	CookieMaxAge     time.Duration
	TransitionWindow time.Duration
	Secure           bool
}

// CookieStorage is a theme.Storage backed by request cookies. Reads see the
// cookies the browser sent; writes become Set-Cookie headers and are also
// visible to later reads within the same request.
type CookieStorage struct {
	r       *http.Request
	w       http.ResponseWriter
	maxAge  time.Duration
	secure  bool
	written map[string]string
}

// NewCookieStorage creates a CookieStorage for one request.
func NewCookieStorage(w http.ResponseWriter, r *http.Request, maxAge time.Duration, secure bool) *CookieStorage {
	return &CookieStorage{r: r, w: w, maxAge: maxAge, secure: secure}
}

// Get implements theme.Storage.
func (c *CookieStorage) Get(key string) (string, bool, error) {
	if v, ok := c.written[key]; ok {
		return v, true, nil
	}
	cookie, err := c.r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return cookie.Value, true, nil
}

// Set implements theme.Storage. The cookie is readable by scripts so a
// client can read the preference without a round trip.
func (c *CookieStorage) Set(key, value string) error {
	if c.written == nil {
		c.written = make(map[string]string)
	}
	c.written[key] = value

	maxAge := int(c.maxAge / time.Second)
	if key == theme.TransitionKey {
		// The marker only has to survive the redirect that follows a change.
		maxAge = 5
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Theme injects a theme.Store, loaded from the request cookies, into every
// request context. Handlers obtain it with theme.FromContext.
func Theme(cfg ThemeConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	opts := []theme.StoreOption{
		theme.WithDefault(cfg.Default),
		theme.WithLogger(logger),
	}
	if cfg.TransitionWindow > 0 {
		opts = append(opts, theme.WithTransitionWindow(cfg.TransitionWindow))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storage := NewCookieStorage(w, r, cfg.CookieMaxAge, cfg.Secure)
			store := theme.NewStore(storage, opts...)
			next.ServeHTTP(w, r.WithContext(theme.NewContext(r.Context(), store)))
		})
	}
}
