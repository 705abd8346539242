package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/service"
)

const maxBodyBytes = 4 << 20

type Router struct {
	svc      *service.Service
	log      *observability.Logger
	basePath string
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type suggestResponse struct {
	Lang        string   `json:"lang"`
	Word        string   `json:"word"`
	Suggestions []string `json:"suggestions"`
}

type wordRequest struct {
	Lang string `json:"lang"`
	Word string `json:"word"`
}

type checkRequest struct {
	Lang    string `json:"lang"`
	Text    string `json:"text"`
	Suggest bool   `json:"suggest"`
}

type learnedResponse struct {
	Lang    string   `json:"lang"`
	Words   []string `json:"words,omitempty"`
	Word    string   `json:"word,omitempty"`
	Learned *bool    `json:"learned,omitempty"`
}

type detectResponse struct {
	Lang string `json:"lang"`
}

type downloadResponse struct {
	Lang string `json:"lang"`
	URL  string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewRouter(svc *service.Service, log *observability.Logger, basePath string) http.Handler {
	r := &Router{svc: svc, log: log.OrDiscard(), basePath: normalizeBasePath(basePath)}
	mux := http.NewServeMux()
	r.handleRoute(mux, http.MethodGet, "/health", r.handleHealth)
	r.handleRoute(mux, http.MethodGet, "/dictionaries", r.handleDictionaries)
	r.handleRoute(mux, http.MethodGet, "/check", r.handleCheck)
	r.handleRoute(mux, http.MethodPost, "/check", r.handleCheck)
	r.handleRoute(mux, http.MethodPost, "/check/async", r.handleCheckAsync)
	r.handleRoute(mux, http.MethodGet, "/suggest", r.handleSuggest)
	r.handleRoute(mux, http.MethodPost, "/learn", r.handleLearn)
	r.handleRoute(mux, http.MethodPost, "/unlearn", r.handleUnlearn)
	r.handleRoute(mux, http.MethodGet, "/learned", r.handleLearned)
	r.handleRoute(mux, http.MethodGet, "/detect", r.handleDetect)
	r.handleRoute(mux, http.MethodPost, "/detect", r.handleDetect)
	r.handleRoute(mux, http.MethodPost, "/cache/clear", r.handleClearCache)
	r.handleRoute(mux, http.MethodGet, "/download-url", r.handleDownloadURL)
	r.handle(mux, "/debug/vars", expvar.Handler())

	h := observability.RequestIDMiddleware(mux)
	h = observability.RecoveryMiddleware(r.log)(h)
	h = observability.LoggingMiddleware(r.log)(h)
	return h
}

func (r *Router) handleRoute(mux *http.ServeMux, method, path string, handler http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, handler)
	if r.basePath != "" {
		mux.HandleFunc(method+" "+r.basePath+path, handler)
	}
}

func (r *Router) handle(mux *http.ServeMux, path string, handler http.Handler) {
	mux.Handle(path, handler)
	if r.basePath != "" {
		mux.Handle(r.basePath+path, handler)
	}
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}

func (r *Router) handleDictionaries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, r.svc.Dictionaries())
}

func (r *Router) handleCheck(w http.ResponseWriter, req *http.Request) {
	in, err := readCheck(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	lang, err := r.svc.ResolveLanguage(req.Context(), in.Lang, in.Text)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	res, err := r.svc.Check(lang, in.Text, in.Suggest)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (r *Router) handleCheckAsync(w http.ResponseWriter, req *http.Request) {
	in, err := readCheck(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	lang, err := r.svc.ResolveLanguage(req.Context(), in.Lang, in.Text)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	res, err := r.svc.CheckAsync(req.Context(), lang, in.Text, in.Suggest)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readCheck accepts query parameters, a JSON body, or a plain-text body
// with lang in the query.
func readCheck(req *http.Request) (checkRequest, error) {
	q := req.URL.Query()
	in := checkRequest{
		Lang:    strings.TrimSpace(q.Get("lang")),
		Text:    q.Get("text"),
		Suggest: parseBool(q.Get("suggest")),
	}
	if req.Method != http.MethodPost {
		return in, nil
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
	if err != nil {
		return in, err
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/json") {
		var js checkRequest
		if err := json.Unmarshal(body, &js); err != nil {
			return in, errors.New("invalid JSON body")
		}
		if js.Lang != "" {
			in.Lang = js.Lang
		}
		if js.Text != "" {
			in.Text = js.Text
		}
		in.Suggest = in.Suggest || js.Suggest
		return in, nil
	}
	if len(body) > 0 {
		in.Text = string(body)
	}
	return in, nil
}

func (r *Router) handleSuggest(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	lang := strings.TrimSpace(q.Get("lang"))
	word := strings.TrimSpace(q.Get("word"))
	if lang == "" || word == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing lang or word"})
		return
	}
	limit := observability.ParseLimit(q.Get("limit"), backend.MaxCorrections, backend.MaxCorrections)
	out, err := r.svc.Suggest(lang, word, limit)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestResponse{Lang: lang, Word: word, Suggestions: out})
}

func (r *Router) handleLearn(w http.ResponseWriter, req *http.Request) {
	r.mutateWord(w, req, r.svc.Learn)
}

func (r *Router) handleUnlearn(w http.ResponseWriter, req *http.Request) {
	r.mutateWord(w, req, r.svc.Unlearn)
}

func (r *Router) mutateWord(w http.ResponseWriter, req *http.Request, op func(lang, word string) error) {
	var in wordRequest
	if err := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(in.Lang) == "" || strings.TrimSpace(in.Word) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing lang or word"})
		return
	}
	if err := op(in.Lang, in.Word); err != nil {
		r.writeError(w, req, err)
		return
	}
	learned, err := r.svc.IsLearned(in.Lang, in.Word)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, learnedResponse{Lang: in.Lang, Word: in.Word, Learned: &learned})
}

func (r *Router) handleLearned(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	lang := strings.TrimSpace(q.Get("lang"))
	if lang == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing lang"})
		return
	}
	if word := strings.TrimSpace(q.Get("word")); word != "" {
		learned, err := r.svc.IsLearned(lang, word)
		if err != nil {
			r.writeError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, learnedResponse{Lang: lang, Word: word, Learned: &learned})
		return
	}
	words, err := r.svc.Learned(lang)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, learnedResponse{Lang: lang, Words: words})
}

func (r *Router) handleDetect(w http.ResponseWriter, req *http.Request) {
	in, err := readCheck(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	code, err := r.svc.Detect(req.Context(), in.Text)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, detectResponse{Lang: code})
}

func (r *Router) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	r.svc.ClearCache()
	writeJSON(w, http.StatusOK, healthResponse{Status: "cleared", Time: time.Now().UTC()})
}

func (r *Router) handleDownloadURL(w http.ResponseWriter, req *http.Request) {
	lang := strings.TrimSpace(req.URL.Query().Get("lang"))
	u, err := r.svc.DownloadURL(lang)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{Lang: lang, URL: u})
}

func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyInput), errors.Is(err, service.ErrNoLanguage):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownLanguage):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrBackend):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}
	if status >= 500 {
		r.log.Warn("request failed", "error", err, "request_id", observability.RequestIDFrom(req.Context()))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func normalizeBasePath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return ""
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(payload)
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
