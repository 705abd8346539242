// Package detect identifies the language of a text with whatlanggo.
package detect

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/sagerenn/spelld/internal/langtag"
	"github.com/sagerenn/spelld/internal/spellcheck"
)

type Whatlang struct{}

var _ spellcheck.Detector = Whatlang{}

// Detect reports the ISO 639-1 code of text's language. whatlanggo yields a
// single candidate; a candidate outside opts.Whitelist is dropped.
func (Whatlang) Detect(text string, opts spellcheck.DetectOptions, cb func(error, *spellcheck.Detection)) {
	d, err := detect(text, opts)
	cb(err, d)
}

func detect(text string, opts spellcheck.DetectOptions) (d *spellcheck.Detection, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d, err = nil, fmt.Errorf("whatlanggo: %v", rec)
		}
	}()
	if strings.TrimSpace(text) == "" {
		return &spellcheck.Detection{}, nil
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	out := &spellcheck.Detection{Reliable: info.IsReliable()}
	if code == "" || !allowed(code, opts.Whitelist) {
		out.Reliable = false
		return out, nil
	}
	out.Languages = []spellcheck.Candidate{{Code: code, Percent: info.Confidence * 100}}
	return out, nil
}

func allowed(code string, whitelist []string) bool {
	if len(whitelist) == 0 {
		return true
	}
	for _, w := range whitelist {
		if strings.EqualFold(langtag.Base(w), code) {
			return true
		}
	}
	return false
}
