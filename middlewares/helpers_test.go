package middlewares_test

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/internal"
)

func newRequest(method, path string, header http.Header) *internal.Request {
	if header == nil {
		header = http.Header{}
	}
	return &internal.Request{Method: method, Path: path, Header: header}
}

func ok(*internal.Request, *internal.Context) (*internal.Response, error) {
	return internal.Text(http.StatusOK, "ok"), nil
}
