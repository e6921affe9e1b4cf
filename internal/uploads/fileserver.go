package uploads

import (
	"net/http"
	"path"
)

// FileServer serves stored uploads read-only. Only well-formed references are
// answered; directories and anything else get a 404.
func (s *Store) FileServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		ownerID, filename, ok := ParseReference(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		f, err := s.fs.Open(path.Join(ownerID, filename))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", MediaTypeFromExtension(filename))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, filename, info.ModTime(), f)
	})
}
