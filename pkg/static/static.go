package static

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// Prefix is the URL prefix assets are served under.
const Prefix = "/public"

type config struct {
	stripPrefix string
	notFound    http.Handler
}

type Option func(*config)

// WithStripPrefix removes prefix from the URL path before looking up files.
func WithStripPrefix(prefix string) Option {
	return func(c *config) { c.stripPrefix = prefix }
}

// WithNotFound handles requests for files none of the layers contain.
func WithNotFound(h http.Handler) Option {
	return func(c *config) { c.notFound = h }
}

// Handler serves files from layered file systems. The first layer holding a
// path wins. Directory listings are never served.
func Handler(layers []fs.FS, opts ...Option) http.Handler {
	cfg := &config{notFound: http.NotFoundHandler()}
	for _, opt := range opts {
		opt(cfg)
	}

	fsys := layered(layers)
	fileServer := http.FileServer(neuteredFileSystem{http.FS(fsys)})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + strings.TrimPrefix(r.URL.Path, cfg.stripPrefix))
		if !exists(fsys, p) {
			cfg.notFound.ServeHTTP(w, r)
			return
		}

		r2 := r.Clone(r.Context())
		r2.URL.Path = p
		r2.URL.RawPath = ""
		fileServer.ServeHTTP(w, r2)
	})
}

// Dir returns the directory as a layer, or nil when it does not exist.
func Dir(dir string) fs.FS {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

func exists(fsys fs.FS, p string) bool {
	name := strings.TrimPrefix(p, "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err := fs.Stat(fsys, path.Join(name, "index.html"))
		return err == nil
	}
	return true
}

// layered resolves each name against the layers in order.
type layered []fs.FS

func (l layered) Open(name string) (fs.File, error) {
	for _, fsys := range l {
		if fsys == nil {
			continue
		}
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// neuteredFileSystem disables directory listing.
type neuteredFileSystem struct {
	http.FileSystem
}

func (nfs neuteredFileSystem) Open(name string) (http.File, error) {
	f, err := nfs.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	s, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if s.IsDir() {
		index, err := nfs.FileSystem.Open(path.Join(name, "index.html"))
		if err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
		_ = index.Close()
	}

	return f, nil
}
