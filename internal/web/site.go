// Package web serves the calculator page.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"

	"github.com/spf13/afero"
)

//go:embed assets
var assets embed.FS

const indexPath = "/index.html"

// Site serves index.html at / and everything else under /static/.
type Site struct {
	fs afero.Fs
}

// NewSite serves files from fsys.
func NewSite(fsys afero.Fs) *Site {
	return &Site{fs: afero.NewReadOnlyFs(fsys)}
}

// Open returns the site for dir on disk, or the embedded page when dir is
// empty.
func Open(dir string) (*Site, error) {
	if dir == "" {
		mem, err := embeddedFs()
		if err != nil {
			return nil, err
		}
		return NewSite(mem), nil
	}

	osFs := afero.NewOsFs()
	ok, err := afero.DirExists(osFs, dir)
	if err != nil {
		return nil, fmt.Errorf("stat static dir %q: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("static dir %q does not exist", dir)
	}
	return NewSite(afero.NewBasePathFs(osFs, dir)), nil
}

// embeddedFs copies the embedded assets into an in-memory filesystem.
func embeddedFs() (afero.Fs, error) {
	mem := afero.NewMemMapFs()
	err := fs.WalkDir(assets, "assets", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := assets.ReadFile(p)
		if err != nil {
			return err
		}
		rel := path.Clean("/" + p[len("assets"):])
		return afero.WriteFile(mem, rel, data, 0o644)
	})
	if err != nil {
		return nil, fmt.Errorf("loading embedded assets: %w", err)
	}
	return mem, nil
}

// Index handles GET /.
func (s *Site) Index(w http.ResponseWriter, r *http.Request) {
	f, err := s.fs.Open(indexPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, path.Base(indexPath), info.ModTime(), f)
}

// Assets serves /static/*.
func (s *Site) Assets() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(afero.NewHttpFs(s.fs).Dir("/")))
}
