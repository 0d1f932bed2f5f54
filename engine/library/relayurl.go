package library

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidRelayURL = errors.New("invalid relay url")

// UncheckedURL is a url exactly as it appeared on the wire.
type UncheckedURL string

// RelayURL is a websocket url that passed ParseRelayURL.
type RelayURL string

// ParseRelayURL accepts ws:// and wss:// urls with a host. Scheme and host are lowercased.
func ParseRelayURL(u UncheckedURL) (RelayURL, error) {
	parsed, err := url.Parse(strings.TrimSpace(string(u)))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidRelayURL, err.Error())
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "ws" && scheme != "wss" {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidRelayURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidRelayURL)
	}
	parsed.Scheme = scheme
	parsed.Host = strings.ToLower(parsed.Host)
	return RelayURL(parsed.String()), nil
}
