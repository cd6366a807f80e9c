// Package video turns user-supplied links into video identifiers.
package video

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedInput is returned when no identifier can be extracted from a link.
var ErrMalformedInput = errors.New("malformed video link")

const thumbnailURLFormat = "https://img.youtube.com/vi/%s/0.jpg"

// Reference is a parsed video link.
type Reference struct {
	ID   string `json:"video_id"`
	Link string `json:"link"`
}

// ThumbnailURL returns the preview image shown next to a summary.
func (r Reference) ThumbnailURL() string {
	return fmt.Sprintf(thumbnailURLFormat, url.PathEscape(r.ID))
}

// ParseReference extracts the identifier from a link carrying it as a
// key=VALUE query parameter. The "v" parameter wins when present;
// otherwise the first parameter with a value is used. The token itself is
// not validated.
func ParseReference(link string) (Reference, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return Reference{}, fmt.Errorf("%w: empty link", ErrMalformedInput)
	}

	query := link
	if _, after, found := strings.Cut(link, "?"); found {
		query = after
	}
	if before, _, found := strings.Cut(query, "#"); found {
		query = before
	}

	var first string
	for _, pair := range strings.Split(query, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		value = unescape(value)
		if value == "" {
			continue
		}
		if unescape(key) == "v" {
			return Reference{ID: value, Link: link}, nil
		}
		if first == "" {
			first = value
		}
	}

	if first == "" {
		return Reference{}, fmt.Errorf("%w: no key=VIDEO_ID parameter in %q", ErrMalformedInput, link)
	}
	return Reference{ID: first, Link: link}, nil
}

// unescape decodes %XX escapes only; '+' is kept as is so an identifier
// is never altered beyond percent-decoding.
func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
