package clientip

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/textproto"
	"strings"
)

// Config lists the proxy headers to trust, e.g. "CF-Connecting-IP,X-Forwarded-For".
type Config struct {
	TrustedHeaders []string `env:"CLIENT_IP_HEADERS" envSeparator:","`
}

// Resolver extracts client addresses.
type Resolver struct {
	headers []string
}

func New(trustedHeaders ...string) *Resolver {
	headers := make([]string, 0, len(trustedHeaders))
	for _, h := range trustedHeaders {
		if h = strings.TrimSpace(h); h != "" {
			headers = append(headers, textproto.CanonicalMIMEHeaderKey(h))
		}
	}
	return &Resolver{headers: headers}
}

// IP returns the first valid address from the trusted headers, falling back
// to RemoteAddr. X-Forwarded-For contributes its left-most valid entry.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		for _, v := range r.Header.Values(h) {
			for part := range strings.SplitSeq(v, ",") {
				if ip := normalize(part); ip != "" {
					return ip
				}
			}
		}
	}
	return remoteIP(r)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

type ctxKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}

// FromRequest returns the address stored by Middleware or the peer address.
func FromRequest(r *http.Request) string {
	if ip := FromContext(r.Context()); ip != "" {
		return ip
	}
	return remoteIP(r)
}

// LoggerExtractor adds the "client_ip" attribute to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return slog.String("client_ip", ip), true
		}
		return slog.Attr{}, false
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
