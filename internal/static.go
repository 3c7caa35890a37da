package internal

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"
)

// StaticFiles returns a GET-only view serving files from fsys.
// pattern must capture the file path in a group named "file_path", e.g.
// `/static/(?P<file_path>.*)`. Paths that are not valid fs.FS paths, such as
// ones escaping the root with "..", and directories are answered like
// missing files: 404 "Not found".
//
//	dispatch.WithView(dispatch.MustStaticFiles(`/static/(?P<file_path>.*)`, os.DirFS("public")))
func StaticFiles(pattern string, fsys fs.FS) (*View, error) {
	return NewView(pattern, []string{http.MethodGet}, func(r *Request, c *Context) (*Response, error) {
		name, ok := c.Params()["file_path"]
		if !ok {
			return nil, errors.New("dispatch: static files pattern has no file_path group")
		}
		return serveFile(fsys, name)
	})
}

// MustStaticFiles is like StaticFiles but panics on an invalid pattern.
func MustStaticFiles(pattern string, fsys fs.FS) *View {
	v, err := StaticFiles(pattern, fsys)
	if err != nil {
		panic(err)
	}
	return v
}

func serveFile(fsys fs.FS, name string) (*Response, error) {
	if !fs.ValidPath(name) {
		return Text(http.StatusNotFound, "Not found"), nil
	}

	info, err := fs.Stat(fsys, name)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return Text(http.StatusNotFound, "Not found"), nil
		}
		return nil, err
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}

	res := NewResponse(http.StatusOK, ctype, data)
	res.Header.Set("X-Content-Type-Options", "nosniff")
	return res, nil
}
