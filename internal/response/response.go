package response

import (
	"net/http"
	"strconv"
)

// Response is the immutable result of a dispatched request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Write writes the response to an http.ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	for name, values := range r.Header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}

	if len(r.Body) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	w.WriteHeader(r.StatusCode)

	if len(r.Body) == 0 {
		return nil
	}

	_, err := w.Write(r.Body)
	return err
}
