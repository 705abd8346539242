package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagerenn/spelld/internal/backend/platform"
	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/service"
	"github.com/sagerenn/spelld/internal/spellcheck"
)

type checkResp struct {
	Lang         string `json:"lang"`
	Engine       string `json:"engine"`
	Count        int    `json:"count"`
	Misspellings []struct {
		Word        string   `json:"word"`
		Start       int      `json:"start"`
		End         int      `json:"end"`
		Suggestions []string `json:"suggestions"`
	} `json:"misspellings"`
}

func setupRouter(t *testing.T, basePath string) http.Handler {
	t.Helper()
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "en_US.aff"), []byte("SET UTF-8\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "en_US.dic"), []byte("3\nhello\nworld\nhouse\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctor := platform.NewConstructor(platform.Options{DictDirs: []string{tmp}, SystemDirs: []string{}})
	f := spellcheck.New(ctor,
		spellcheck.WithDictionaryDir(tmp),
		spellcheck.WithUserDictionaryDir(t.TempDir()),
	)
	t.Cleanup(f.Wait)
	svc := service.New(f, service.Options{CacheSize: 32})
	log := observability.New("error")
	return NewRouter(svc, log, basePath)
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, "")
	rr := do(t, r, http.MethodGet, "/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get(observability.RequestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestCheck(t *testing.T) {
	r := setupRouter(t, "")
	rr := do(t, r, http.MethodGet, "/check?lang=en_US&suggest=1&text=hello+wrold", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp checkResp
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Misspellings[0].Word != "wrold" || resp.Misspellings[0].Start != 6 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Misspellings[0].Suggestions) == 0 || resp.Misspellings[0].Suggestions[0] != "world" {
		t.Fatalf("expected world suggestion, got %v", resp.Misspellings[0].Suggestions)
	}
}

func TestCheckPostJSONAndAsync(t *testing.T) {
	r := setupRouter(t, "")
	for _, path := range []string{"/check", "/check/async"} {
		rr := do(t, r, http.MethodPost, path, "application/json", `{"lang":"en_US","text":"hello huose"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rr.Code, rr.Body.String())
		}
		var resp checkResp
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Count != 1 || resp.Engine != "hunspell" {
			t.Fatalf("%s: unexpected response: %+v", path, resp)
		}
	}
}

func TestCheckErrors(t *testing.T) {
	r := setupRouter(t, "")
	if rr := do(t, r, http.MethodGet, "/check?lang=xx_XX&text=abc", "", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/check?lang=en_US", "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodPost, "/check", "application/json", "{"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodDelete, "/check", "", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestLearnFlow(t *testing.T) {
	r := setupRouter(t, "")
	rr := do(t, r, http.MethodPost, "/learn", "application/json", `{"lang":"en_US","word":"gopher"}`)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"learned":true`) {
		t.Fatalf("learn failed: %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, r, http.MethodGet, "/learned?lang=en_US", "", "")
	if !strings.Contains(rr.Body.String(), "gopher") {
		t.Fatalf("expected gopher in %s", rr.Body.String())
	}
	rr = do(t, r, http.MethodGet, "/check?lang=en_US&text=gopher", "", "")
	if !strings.Contains(rr.Body.String(), `"count":0`) {
		t.Fatalf("learned word still misspelled: %s", rr.Body.String())
	}
	rr = do(t, r, http.MethodPost, "/unlearn", "application/json", `{"lang":"en_US","word":"gopher"}`)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"learned":false`) {
		t.Fatalf("unlearn failed: %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, r, http.MethodGet, "/learned?lang=en_US&word=gopher", "", "")
	if !strings.Contains(rr.Body.String(), `"learned":false`) {
		t.Fatalf("unexpected learned state: %s", rr.Body.String())
	}
}

func TestSuggestAndDictionaries(t *testing.T) {
	r := setupRouter(t, "")
	rr := do(t, r, http.MethodGet, "/suggest?lang=en_US&word=helo&limit=3", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "hello") {
		t.Fatalf("suggest failed: %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, r, http.MethodGet, "/dictionaries", "", "")
	if !strings.Contains(rr.Body.String(), `"en_US"`) {
		t.Fatalf("dictionaries: %s", rr.Body.String())
	}
	rr = do(t, r, http.MethodGet, "/download-url?lang=en_GB", "", "")
	if !strings.Contains(rr.Body.String(), "en-gb-8-0.bdic") {
		t.Fatalf("download url: %s", rr.Body.String())
	}
	if rr := do(t, r, http.MethodPost, "/cache/clear", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("cache clear: %d", rr.Code)
	}
}

func TestDetectWithoutDetector(t *testing.T) {
	r := setupRouter(t, "")
	rr := do(t, r, http.MethodGet, "/detect?text=hello+world", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"lang":""`) {
		t.Fatalf("detect: %d %s", rr.Code, rr.Body.String())
	}
}

func TestBasePath(t *testing.T) {
	r := setupRouter(t, "/api/")
	if rr := do(t, r, http.MethodGet, "/api/health", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestDebugVars(t *testing.T) {
	r := setupRouter(t, "")
	rr := do(t, r, http.MethodGet, "/debug/vars", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	for _, name := range []string{"requests_total", "checker_cache_hits", "userdict_writes"} {
		if !strings.Contains(rr.Body.String(), name) {
			t.Fatalf("expected %s in expvar output", name)
		}
	}
}
