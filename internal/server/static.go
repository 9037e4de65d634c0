package server

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var staticTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "application/javascript; charset=utf-8",
	".json":        "application/json; charset=utf-8",
	".svg":         "image/svg+xml",
	".ico":         "image/x-icon",
	".png":         "image/png",
	".webmanifest": "application/manifest+json",
}

// staticFiles serves a directory tree. Requests that resolve outside root,
// lexically or through a symlink, are refused.
type staticFiles struct {
	root string
}

func newStaticFiles(dir string) *staticFiles {
	root, err := filepath.Abs(dir)
	if err != nil {
		root = filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &staticFiles{root: root}
}

func (f *staticFiles) serve(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if urlPath == "" || urlPath == "/" {
		urlPath = "/index.html"
	}
	candidate := filepath.Join(f.root, filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	if !f.contains(candidate) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if !f.contains(resolved) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h := w.Header()
	h.Set("Content-Type", contentType(resolved))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (f *staticFiles) contains(path string) bool {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func contentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := staticTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
