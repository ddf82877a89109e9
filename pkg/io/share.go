package io

import (
	"net/url"
	"strings"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// ShareParam is the query parameter carrying an encoded room.
const ShareParam = "s"

// ToShareLink returns origin + "?s=" + percentEncode(json(room)).
func ToShareLink(room SerializedRoom, origin string) (string, error) {
	if err := errors.ValidateOrigin(origin); err != nil {
		return "", err
	}
	b, err := marshalCompact(room.normalized())
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode room")
	}
	return origin + "?" + ShareParam + "=" + EncodeURIComponent(string(b)), nil
}

// FromShareLink extracts and decodes the room carried by a share link. A
// bare query string ("?s=...") or the raw parameter value is also accepted.
func FromShareLink(link string) Result {
	value, present := shareValue(link)
	if !present || value == "" {
		return failed(ReasonAbsent, nil)
	}
	return FromStorageText(value)
}

func shareValue(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	query := link
	if i := strings.IndexByte(link, '?'); i >= 0 {
		query = link[i+1:]
	} else if strings.HasPrefix(link, "%7B") || strings.HasPrefix(link, "{") {
		v, err := url.QueryUnescape(link)
		return v, err == nil
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", false
	}
	if !values.Has(ShareParam) {
		return "", false
	}
	return values.Get(ShareParam), true
}

// EncodeURIComponent percent-encodes s exactly like JavaScript's
// encodeURIComponent: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is
// escaped as UTF-8 bytes.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3 / 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
