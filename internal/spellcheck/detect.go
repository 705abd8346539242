package spellcheck

import (
	"github.com/sagerenn/spelld/internal/observability"
)

// DetectionThreshold is the lowest top-candidate percent accepted.
const DetectionThreshold = 85

// Candidate is one language guess.
type Candidate struct {
	Code    string  `json:"code"`
	Percent float64 `json:"percent"`
}

// Detection is what a Detector reports: candidates ordered best first.
type Detection struct {
	Reliable  bool        `json:"reliable"`
	Languages []Candidate `json:"languages"`
}

type DetectOptions struct {
	// Whitelist limits the candidates to these codes when non-empty.
	Whitelist []string
}

// Detector identifies the language of a text and reports through cb.
type Detector interface {
	Detect(text string, opts DetectOptions, cb func(error, *Detection))
}

// DetectLanguageForText resolves to the detected language code, or "" when
// there is no confident answer. The Future never rejects: detector errors
// and panics resolve to "".
func (f *Factory) DetectLanguageForText(text string, opts DetectOptions) *Future[string] {
	observability.DetectionsTotal.Add(1)
	if f.detector == nil {
		observability.DetectionsNull.Add(1)
		return resolved("")
	}
	return bridge(func(cb func(error, string)) {
		defer func() {
			if rec := recover(); rec != nil {
				f.log.Warn("language detection panicked", "error", rec)
				observability.DetectionsNull.Add(1)
				cb(nil, "")
			}
		}()
		f.detector.Detect(text, opts, func(err error, d *Detection) {
			if err != nil {
				f.log.Debug("language detection failed", "error", err)
			}
			code := confidentLanguage(err, d)
			if code == "" {
				observability.DetectionsNull.Add(1)
			}
			cb(nil, code)
		})
	})
}

func confidentLanguage(err error, d *Detection) string {
	if err != nil || d == nil || !d.Reliable || len(d.Languages) == 0 {
		return ""
	}
	top := d.Languages[0]
	if top.Percent < DetectionThreshold {
		return ""
	}
	return top.Code
}
