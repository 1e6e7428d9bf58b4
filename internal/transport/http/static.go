package httptransport

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"storefront/pkg/platform/httputil"
)

// spaHandler serves files from dir and falls back to dir/index.html for any
// other GET so client-side routes resolve. Paths under /api/ never fall back.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httputil.WriteMessage(w, http.StatusNotFound, "not found")
			return
		}
		clean := path.Clean("/" + r.URL.Path)
		if clean == "/api" || strings.HasPrefix(clean, "/api/") {
			httputil.WriteMessage(w, http.StatusNotFound, "not found")
			return
		}

		if clean != "/" {
			if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean))); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}

		if _, err := os.Stat(index); err != nil {
			httputil.WriteMessage(w, http.StatusNotFound, "not found")
			return
		}
		http.ServeFile(w, r, index)
	})
}
