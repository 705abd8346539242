// Package service implements the spell-check use cases served over HTTP
// and the CLI on top of a spellcheck.Factory.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sagerenn/spelld/internal/backend"
	"github.com/sagerenn/spelld/internal/cache"
	"github.com/sagerenn/spelld/internal/langtag"
	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/spellcheck"
)

var (
	ErrEmptyInput      = errors.New("empty input")
	ErrUnknownLanguage = errors.New("no dictionary for language")
	ErrNoLanguage      = errors.New("language could not be determined")
	ErrBackend         = errors.New("spell-check engine failed")
)

type Options struct {
	CacheSize       int
	CacheTTL        time.Duration
	DetectWhitelist []string
	Log             *observability.Logger
}

type Service struct {
	factory   *spellcheck.Factory
	cache     *cache.Cache
	whitelist []string
	log       *observability.Logger
}

type Misspelling struct {
	Word        string   `json:"word"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type CheckResult struct {
	Lang         string        `json:"lang"`
	Tag          string        `json:"tag"`
	Engine       string        `json:"engine"`
	Misspellings []Misspelling `json:"misspellings"`
	Count        int           `json:"count"`
}

type Dictionaries struct {
	Available []string `json:"available"`
	Path      string   `json:"path"`
	UserPath  string   `json:"user_path"`
}

func New(f *spellcheck.Factory, opts Options) *Service {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &Service{
		factory:   f,
		cache:     cache.New(opts.CacheSize, opts.CacheTTL),
		whitelist: opts.DetectWhitelist,
		log:       opts.Log.OrDiscard(),
	}
}

func (s *Service) Factory() *spellcheck.Factory {
	return s.factory
}

func (s *Service) checker(lang string) (*spellcheck.Checker, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil, ErrNoLanguage
	}
	c := s.factory.GetSpellChecker(lang)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, lang)
	}
	return c, nil
}

// ResolveLanguage returns lang when set. Otherwise it detects the language
// of text and falls back to the OS locale, keeping only languages with an
// installed dictionary.
func (s *Service) ResolveLanguage(ctx context.Context, lang, text string) (string, error) {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang, nil
	}
	available := s.factory.AvailableDictionaries()
	if code, err := s.Detect(ctx, text); err == nil && code != "" {
		if best := langtag.Best([]string{code}, available); best != "" {
			return best, nil
		}
	}
	if best := langtag.Best(langtag.SystemLanguages(), available); best != "" {
		return best, nil
	}
	return "", ErrNoLanguage
}

// Check lists the misspelled words of text. With suggest set each one
// carries its corrections.
func (s *Service) Check(lang, text string, suggest bool) (CheckResult, error) {
	if strings.TrimSpace(text) == "" {
		return CheckResult{}, ErrEmptyInput
	}
	c, err := s.checker(lang)
	if err != nil {
		return CheckResult{}, err
	}
	return s.result(c, text, c.CheckSpelling(text), suggest), nil
}

// CheckAsync runs the check through the engine's asynchronous path and
// waits for it within ctx.
func (s *Service) CheckAsync(ctx context.Context, lang, text string, suggest bool) (CheckResult, error) {
	if strings.TrimSpace(text) == "" {
		return CheckResult{}, ErrEmptyInput
	}
	c, err := s.checker(lang)
	if err != nil {
		return CheckResult{}, err
	}
	ranges, err := c.CheckSpellingAsync(text).Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return CheckResult{}, err
		}
		return CheckResult{}, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return s.result(c, text, ranges, suggest), nil
}

func (s *Service) result(c *spellcheck.Checker, text string, ranges []backend.Range, suggest bool) CheckResult {
	res := CheckResult{
		Lang:         c.Lang(),
		Tag:          c.Tag(),
		Engine:       c.Kind().String(),
		Misspellings: make([]Misspelling, 0, len(ranges)),
	}
	for _, r := range ranges {
		if r.Start < 0 || r.End > len(text) || r.Start >= r.End {
			continue
		}
		m := Misspelling{Word: text[r.Start:r.End], Start: r.Start, End: r.End}
		if suggest {
			m.Suggestions = s.suggest(c, m.Word, backend.MaxCorrections)
		}
		res.Misspellings = append(res.Misspellings, m)
	}
	res.Count = len(res.Misspellings)
	return res
}

// Suggest returns up to limit corrections for word.
func (s *Service) Suggest(lang, word string, limit int) ([]string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyInput
	}
	c, err := s.checker(lang)
	if err != nil {
		return nil, err
	}
	return s.suggest(c, word, limit), nil
}

func (s *Service) suggest(c *spellcheck.Checker, word string, limit int) []string {
	if limit <= 0 {
		limit = backend.MaxCorrections
	}
	key := suggestKey(c.Lang(), word)
	var out []string
	if v, ok := s.cache.Get(key); ok {
		out, _ = v.([]string)
		observability.SuggestCacheHits.Add(1)
	} else {
		out = c.GetCorrectionsForMisspelling(word)
		if out == nil {
			out = []string{}
		}
		s.cache.Set(key, out)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return append([]string{}, out...)
}

func suggestKey(lang, word string) string {
	return "suggest|" + lang + "|" + word
}

// Learn adds word to lang's user dictionary. Cached corrections for lang
// are dropped since they may now include or omit the word.
func (s *Service) Learn(lang, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyInput
	}
	c, err := s.checker(lang)
	if err != nil {
		return err
	}
	c.Add(word)
	s.cache.DeletePrefix(suggestKey(c.Lang(), ""))
	s.log.Info("word learned", "lang", c.Lang(), "word", word)
	return nil
}

func (s *Service) Unlearn(lang, word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyInput
	}
	c, err := s.checker(lang)
	if err != nil {
		return err
	}
	c.Remove(word)
	s.cache.DeletePrefix(suggestKey(c.Lang(), ""))
	s.log.Info("word unlearned", "lang", c.Lang(), "word", word)
	return nil
}

func (s *Service) IsLearned(lang, word string) (bool, error) {
	c, err := s.checker(lang)
	if err != nil {
		return false, err
	}
	return c.IsLearned(word), nil
}

// Learned lists the user dictionary words for lang.
func (s *Service) Learned(lang string) ([]string, error) {
	c, err := s.checker(lang)
	if err != nil {
		return nil, err
	}
	return s.factory.UserDictionary().Words(c.Lang()), nil
}

func (s *Service) Dictionaries() Dictionaries {
	return Dictionaries{
		Available: s.factory.AvailableDictionaries(),
		Path:      s.factory.GetDictionaryPath(),
		UserPath:  s.factory.GetUserDictionaryPath(),
	}
}

// Detect returns the language code of text, or "" when unsure.
func (s *Service) Detect(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return s.factory.DetectLanguageForText(text, spellcheck.DetectOptions{Whitelist: s.whitelist}).Wait(ctx)
}

// ClearCache lets failed languages be retried and drops cached
// corrections.
func (s *Service) ClearCache() {
	s.factory.ClearCache()
	s.cache.Purge()
}

func (s *Service) DownloadURL(lang string) (string, error) {
	if strings.TrimSpace(lang) == "" {
		return "", ErrEmptyInput
	}
	return s.factory.DownloadURL(lang), nil
}

// Preload resolves langs concurrently so the first request for each does
// not pay the load. Languages without a dictionary are reported together.
func (s *Service) Preload(ctx context.Context, langs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	missing := make([]string, len(langs))
	for i, lang := range langs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if s.factory.GetSpellChecker(lang) == nil {
				missing[i] = lang
				return nil
			}
			s.log.Info("dictionary preloaded", "lang", lang)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	var failed []string
	for _, m := range missing {
		if m != "" {
			failed = append(failed, m)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("%w: %s", ErrUnknownLanguage, strings.Join(failed, ", "))
	}
	return nil
}
