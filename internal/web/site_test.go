package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-chi-calculator/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
)

func newSiteRouter(s *Site) http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.Index)
	r.Handle("/static/*", s.Assets())
	return r
}

func TestSiteServesIndexAndAssets(t *testing.T) {
	memFs := afero.NewMemMapFs()
	_ = afero.WriteFile(memFs, "/index.html", []byte("<h1>calc</h1>"), 0o644)
	_ = afero.WriteFile(memFs, "/app.js", []byte("console.log('calc')"), 0o644)

	router := newSiteRouter(NewSite(memFs))

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := w.Body.String(); body != "<h1>calc</h1>" {
		t.Fatalf("unexpected index body %q", body)
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/static/app.js", nil), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if !strings.Contains(w.Body.String(), "calc") {
		t.Fatalf("unexpected asset body %q", w.Body.String())
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/static/missing.css", nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestSiteMissingIndex(t *testing.T) {
	router := newSiteRouter(NewSite(afero.NewMemMapFs()))

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/", nil), router)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestOpenEmbedded(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("opening embedded site: %v", err)
	}

	for _, name := range []string{"index.html", "app.js", "style.css"} {
		if ok, _ := afero.Exists(s.fs, "/"+name); !ok {
			t.Fatalf("expected embedded %s", name)
		}
	}
}

func TestOpenMissingDir(t *testing.T) {
	if _, err := Open(t.TempDir() + "/nope"); err == nil {
		t.Fatal("expected error for missing static dir")
	}
}
