package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Content types used by the response builders.
const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// Response is the transport-independent outgoing response.
// Middlewares may modify it in place during the post phase.
type Response struct {
	Header http.Header
	Body   []byte
	Status int
}

// NewResponse builds a response with the given status, content type and body.
func NewResponse(status int, contentType string, body []byte) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{Status: status, Header: h, Body: body}
}

// Text builds a plain text response.
func Text(status int, body string) *Response {
	return NewResponse(status, ContentTypeText, []byte(body))
}

// HTML builds an HTML response.
func HTML(status int, body string) *Response {
	return NewResponse(status, ContentTypeHTML, []byte(body))
}

// JSON builds a JSON response from v.
func JSON(status int, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dispatch: encode json response: %w", err)
	}
	return NewResponse(status, ContentTypeJSON, data), nil
}

// OK builds a 200 JSON response from v.
func OK(v any) (*Response, error) {
	return JSON(http.StatusOK, v)
}

// NoContent builds an empty 204 response.
func NoContent() *Response {
	return NewResponse(http.StatusNoContent, "", nil)
}

// InternalServerError builds the default 500 response for err.
func InternalServerError(err error) *Response {
	return Text(http.StatusInternalServerError, "Error: "+err.Error())
}

// NotFound builds the 404 response returned when no view matches path.
func NotFound(path string) *Response {
	return Text(http.StatusNotFound, "Not found: "+path)
}

// Redirect builds a redirect response to url.
func Redirect(status int, url string) *Response {
	res := NewResponse(status, "", nil)
	res.Header.Set("Location", url)
	return res
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// SetCookie appends a Set-Cookie header. Invalid cookies are dropped.
func (r *Response) SetCookie(c *http.Cookie) {
	if c == nil {
		return
	}
	if v := c.String(); v != "" {
		r.header().Add("Set-Cookie", v)
	}
}

// WriteTo writes the response to w.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	dst := w.Header()
	for k, vs := range r.Header {
		dst[k] = append(dst[k][:0:0], vs...)
	}
	if r.Body != nil && dst.Get("Content-Length") == "" {
		dst.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

func (r *Response) header() http.Header {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	return r.Header
}
