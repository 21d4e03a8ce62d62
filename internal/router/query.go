package router

import (
	"net/url"
	"strings"
)

// Query maps query-string keys to their values. When a key repeats,
// later occurrences overwrite earlier ones (last-wins). This is the
// documented collision contract.
type Query map[string]string

// ParseQuery parses a raw query string: pairs split on '&', each pair
// split on the first '=', key and value URL-decoded. Pairs with
// malformed percent escapes are dropped. The result is never nil; an
// absent query string yields an empty mapping.
func ParseQuery(raw string) Query {
	q := make(Query)
	if raw == "" {
		return q
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}

		q[decodedKey] = decodedValue
	}

	return q
}

// Get returns the value for key, or the empty string.
func (q Query) Get(key string) string {
	return q[key]
}

// Has reports whether key is present.
func (q Query) Has(key string) bool {
	_, ok := q[key]
	return ok
}
