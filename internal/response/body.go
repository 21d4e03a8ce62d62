// Package response provides the response-construction contract for the
// router: a per-request Builder accumulating status, headers, and body,
// and the immutable Response value it produces.
package response

import "encoding/json"

// Body is the payload accepted by Builder.Send. It is a closed union:
// Bytes for raw binary passthrough, JSON for structured values, and
// Text for plain strings. Keeping the union closed makes body encoding
// exhaustive at the builder boundary instead of relying on runtime
// type inspection.
type Body interface {
	bytes() ([]byte, error)
}

// bytesBody passes raw bytes through unmodified.
type bytesBody []byte

func (b bytesBody) bytes() ([]byte, error) {
	return []byte(b), nil
}

// jsonBody carries a value serialized as JSON. Marshaling happens at
// construction so Send can surface the failure deterministically.
type jsonBody struct {
	data []byte
	err  error
}

func (b jsonBody) bytes() ([]byte, error) {
	return b.data, b.err
}

// textBody carries a plain string payload.
type textBody string

func (b textBody) bytes() ([]byte, error) {
	return []byte(b), nil
}

// Bytes wraps a raw byte payload. The bytes are written to the
// response with no transcoding.
func Bytes(b []byte) Body {
	return bytesBody(b)
}

// JSON wraps a structured value, serializing it as JSON text.
func JSON(v any) Body {
	data, err := json.Marshal(v)
	return jsonBody{data: data, err: err}
}

// Text wraps a string payload verbatim.
func Text(s string) Body {
	return textBody(s)
}
