package transport

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the rendering-client bundle from root with a
// single-page-app fallback: any path that does not resolve to a file gets
// index.html, so client-side routes survive a reload.
func StaticHandler(root string) http.Handler {
	index := filepath.Join(root, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Clean(r.URL.Path)
		if strings.HasPrefix(path, "..") {
			http.NotFound(w, r)
			return
		}
		full := filepath.Join(root, path)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
		http.ServeFile(w, r, full)
	})
}
