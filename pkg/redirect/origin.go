package redirect

import (
	"net"
	"net/url"
	"strings"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Origin returns the normalized scheme://host[:port] of an absolute http(s) URL.
// Default ports are dropped and the host is lowercased.
func Origin(rawURL string) (string, bool) {
	u, reason := parse(rawURL)
	if reason != "" {
		return "", false
	}
	return originOf(u), true
}

// parse returns the URL or the reason it cannot be used as a redirect target.
func parse(rawURL string) (*url.URL, Reason) {
	if rawURL == "" {
		return nil, ReasonEmpty
	}
	// Browsers strip surrounding whitespace and read backslashes as slashes;
	// refusing both keeps our reading and theirs identical.
	if strings.TrimSpace(rawURL) != rawURL || strings.Contains(rawURL, `\`) {
		return nil, ReasonUnparsable
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return nil, ReasonUnparsable
	}
	if _, ok := defaultPorts[u.Scheme]; !ok {
		return nil, ReasonScheme
	}
	if u.Opaque != "" || u.Hostname() == "" {
		return nil, ReasonUnparsable
	}
	if port := u.Port(); port != "" && !validPort(port) {
		return nil, ReasonUnparsable
	}
	return u, ""
}

func originOf(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port == defaultPorts[u.Scheme] {
		port = ""
	}

	switch {
	case port != "":
		host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}
	return u.Scheme + "://" + host
}

func validPort(port string) bool {
	if len(port) > 5 {
		return false
	}
	n := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n > 0 && n <= 65535
}
