package response

import "net/http"

// Default header values seeded into every builder unless the owning
// router overrides them. The CORS values mirror the permissive
// defaults used for preflight responses.
const (
	DefaultContentType  = "application/json"
	DefaultAllowOrigin  = "*"
	DefaultAllowMethods = "GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS"
	DefaultAllowHeaders = "Origin, Content-Type, Accept, Authorization, X-Request-ID"
)

// DefaultHeaders returns a fresh copy of the default header set:
// JSON content type plus permissive CORS headers.
func DefaultHeaders() http.Header {
	return http.Header{
		"Content-Type":                 {DefaultContentType},
		"Access-Control-Allow-Origin":  {DefaultAllowOrigin},
		"Access-Control-Allow-Methods": {DefaultAllowMethods},
		"Access-Control-Allow-Headers": {DefaultAllowHeaders},
	}
}

// Builder accumulates a status code, header set, and body for one
// dispatched request. Exactly one handler invocation owns one builder;
// it is never shared across requests or retained after Send.
type Builder struct {
	status int
	header http.Header
}

// NewBuilder creates a builder seeded with the given default headers.
// A nil defaults argument seeds the package defaults. The defaults are
// copied so the builder never mutates shared state.
func NewBuilder(defaults http.Header) *Builder {
	header := make(http.Header, len(defaults))
	if defaults == nil {
		header = DefaultHeaders()
	} else {
		for name, values := range defaults {
			header[name] = append([]string(nil), values...)
		}
	}

	return &Builder{
		status: http.StatusOK,
		header: header,
	}
}

// Status sets the status code for the eventual response. The code is
// not range-validated; that is the caller's responsibility.
func (b *Builder) Status(code int) *Builder {
	b.status = code
	return b
}

// SetHeader sets or overwrites a header in the accumulated header set.
func (b *Builder) SetHeader(name, value string) *Builder {
	b.header.Set(name, value)
	return b
}

// Send finalizes the builder into a Response. A nil body produces an
// empty body. Statuses that conventionally carry no body (1xx, 204,
// 304) drop the body while keeping the accumulated status and headers.
// A body that fails to encode yields a 500 response with a fixed
// message so no partial payload leaks.
func (b *Builder) Send(body Body) *Response {
	resp := &Response{
		StatusCode: b.status,
		Header:     b.header,
	}

	if body == nil || bodilessStatus(b.status) {
		return resp
	}

	data, err := body.bytes()
	if err != nil {
		resp.StatusCode = http.StatusInternalServerError
		resp.Body = []byte("internal server error")
		return resp
	}

	resp.Body = data
	return resp
}

// bodilessStatus reports whether the status code forbids a body.
func bodilessStatus(code int) bool {
	return code == http.StatusNoContent ||
		code == http.StatusNotModified ||
		(code >= 100 && code < 200)
}
