package filters

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultCookieName = "product_filters"
	DefaultCookieDays = 30
)

// EncodeCookieValue serialises spec, without its page size, as URL-encoded
// JSON. Spaces are encoded as %20 so browsers decode the value with
// decodeURIComponent.
func EncodeCookieValue(spec Spec) (string, error) {
	data, err := json.Marshal(FromSpec(spec))
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(url.QueryEscape(string(data)), "+", "%20"), nil
}

// DecodeCookieValue parses a value written by EncodeCookieValue. Fields
// holding values no source may set are dropped.
func DecodeCookieValue(value string) (Partial, error) {
	raw, err := url.PathUnescape(value)
	if err != nil {
		return Partial{}, fmt.Errorf("unescape filter cookie: %w", err)
	}
	var p Partial
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Partial{}, fmt.Errorf("decode filter cookie: %w", err)
	}
	return p.sanitize(), nil
}

// CookieSource loads the spec from the request cookie and saves it on the
// response.
type CookieSource struct {
	name   string
	maxAge time.Duration
	r      *http.Request
	w      http.ResponseWriter
	logger *zap.Logger
}

func NewCookieSource(r *http.Request, w http.ResponseWriter, name string, days int, logger *zap.Logger) *CookieSource {
	if name == "" {
		name = DefaultCookieName
	}
	if days <= 0 {
		days = DefaultCookieDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CookieSource{
		name:   name,
		maxAge: time.Duration(days) * 24 * time.Hour,
		r:      r,
		w:      w,
		logger: logger,
	}
}

// Load returns an empty partial when the cookie is missing or corrupt.
// Corruption is logged, never returned.
func (c *CookieSource) Load() Partial {
	if c.r == nil {
		return Partial{}
	}
	cookie, err := c.r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return Partial{}
	}
	p, err := DecodeCookieValue(cookie.Value)
	if err != nil {
		c.logger.Warn("Ignoring unreadable filter cookie", zap.String("cookie", c.name), zap.Error(err))
		return Partial{}
	}
	return p
}

// Save writes the cookie with path "/" and the configured expiry.
func (c *CookieSource) Save(spec Spec) error {
	if c.w == nil {
		return fmt.Errorf("filter cookie %s: no response writer", c.name)
	}
	value, err := EncodeCookieValue(spec)
	if err != nil {
		return fmt.Errorf("encode filter cookie: %w", err)
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(c.maxAge),
		MaxAge:   int(c.maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
