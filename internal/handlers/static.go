package handlers

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// NewStaticHandler serves files under root with index.html as the default
// document. Dot-files and directory listings are never served.
func NewStaticHandler(root string) http.Handler {
	fs := http.FileServer(siteFS{http.Dir(root)})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasDotSegment(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(path.Clean("/"+p), "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// siteFS hides directories that have no index.html.
type siteFS struct {
	fs http.FileSystem
}

func (s siteFS) Open(name string) (http.File, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if info.IsDir() {
		index, err := s.fs.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, os.ErrNotExist
		}
		index.Close()
	}

	return f, nil
}
