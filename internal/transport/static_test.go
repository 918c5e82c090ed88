package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticHandlerSPAFallback(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>board</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "app.js"), []byte("console.log('hi')"), 0o644); err != nil {
		t.Fatalf("write app.js: %v", err)
	}

	srv := httptest.NewServer(StaticHandler(root))
	defer srv.Close()

	get := func(path string) string {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return string(body)
	}

	if got := get("/app.js"); got != "console.log('hi')" {
		t.Fatalf("GET /app.js = %q", got)
	}
	if got := get("/"); got != "<html>board</html>" {
		t.Fatalf("GET / = %q", got)
	}
	// Unknown client-side routes fall back to the app shell.
	if got := get("/rooms/default"); got != "<html>board</html>" {
		t.Fatalf("GET /rooms/default = %q, want index fallback", got)
	}
}
