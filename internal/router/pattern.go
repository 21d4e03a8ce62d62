// Package router provides the route-matching and dispatch engine.
package router

import (
	"net/url"
	"strings"

	"github.com/vyrodovalexey/avarouter/internal/util"
)

// WildcardKey is the parameter name under which a trailing wildcard
// segment binds the remainder of the path.
const WildcardKey = "*"

// Params maps path parameter names to their matched, URL-decoded
// values. It is nil for patterns without parameter segments.
type Params map[string]string

// segment is one compiled template segment.
type segment struct {
	literal   string
	isParam   bool
	paramName string
}

// Pattern is a compiled matcher over a path template. A template is a
// sequence of literal and `:name` parameter segments with an optional
// trailing `*` wildcard. Patterns are immutable once compiled.
type Pattern struct {
	template string
	segments []segment
	wildcard bool
}

// CompilePattern compiles a path template. Malformed templates fail
// here, at registration time, never at dispatch.
func CompilePattern(template string) (*Pattern, error) {
	if !strings.HasPrefix(template, "/") {
		return nil, util.NewPatternError(template, "must start with '/'")
	}

	p := &Pattern{template: template}
	seen := make(map[string]bool)

	parts := splitPath(template)
	for i, part := range parts {
		switch {
		case part == WildcardKey:
			if i != len(parts)-1 {
				return nil, util.NewPatternError(template, "wildcard must be the final segment")
			}
			p.wildcard = true

		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, util.NewPatternError(template, "empty parameter name")
			}
			if seen[name] {
				return nil, util.NewPatternError(template, "duplicate parameter name "+name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{isParam: true, paramName: name})

		case part == "":
			return nil, util.NewPatternError(template, "empty path segment")

		default:
			p.segments = append(p.segments, segment{literal: part})
		}
	}

	return p, nil
}

// Template returns the original path template.
func (p *Pattern) Template() string {
	return p.template
}

// HasParams reports whether the pattern binds any parameters.
func (p *Pattern) HasParams() bool {
	if p.wildcard {
		return true
	}
	for _, seg := range p.segments {
		if seg.isParam {
			return true
		}
	}
	return false
}

// Match performs segment-wise comparison of the path against the
// template. A literal segment requires exact equality. A parameter
// segment consumes exactly one non-empty path segment, binding its
// URL-decoded text. A wildcard suffix consumes the remainder as one
// string under WildcardKey, with each segment URL-decoded. The path
// must be in escaped form; decoding happens here, exactly once.
// Without a wildcard the segment counts must match exactly. Returned
// params are nil when the pattern binds none.
func (p *Pattern) Match(path string) (bool, Params) {
	parts := splitPath(path)

	if p.wildcard {
		if len(parts) < len(p.segments) {
			return false, nil
		}
	} else if len(parts) != len(p.segments) {
		return false, nil
	}

	var params Params
	for i, seg := range p.segments {
		part := parts[i]
		if !seg.isParam {
			if part != seg.literal {
				return false, nil
			}
			continue
		}

		if part == "" {
			return false, nil
		}
		decoded, err := url.PathUnescape(part)
		if err != nil {
			return false, nil
		}
		if params == nil {
			params = make(Params)
		}
		params[seg.paramName] = decoded
	}

	if p.wildcard {
		rest := parts[len(p.segments):]
		decoded := make([]string, len(rest))
		for i, part := range rest {
			d, err := url.PathUnescape(part)
			if err != nil {
				return false, nil
			}
			decoded[i] = d
		}
		if params == nil {
			params = make(Params)
		}
		params[WildcardKey] = strings.Join(decoded, "/")
	}

	return true, params
}

// splitPath splits a path into segments. The leading slash is dropped;
// a trailing slash yields a final empty segment so "/users/" does not
// match "/users".
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
