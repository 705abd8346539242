// Package langtag handles the two textual spellings of a language tag
// ("en_US" and "en-US") and maps between tags and BCP 47.
package langtag

import (
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// Alternate returns tag with its separator swapped: "en_US" becomes "en-US"
// and the reverse. A tag without a separator is returned unchanged.
func Alternate(tag string) string {
	switch {
	case strings.Contains(tag, "_"):
		return strings.ReplaceAll(tag, "_", "-")
	case strings.Contains(tag, "-"):
		return strings.ReplaceAll(tag, "-", "_")
	default:
		return tag
	}
}

// Forms returns tag followed by its alternate spelling when it has one.
func Forms(tag string) []string {
	alt := Alternate(tag)
	if alt == tag {
		return []string{tag}
	}
	return []string{tag, alt}
}

// Same reports whether a and b denote the same dictionary.
func Same(a, b string) bool {
	return strings.EqualFold(a, b) || strings.EqualFold(Alternate(a), b)
}

// Canonical returns the BCP 47 form of tag ("en_us" -> "en-US"). Tags the
// parser rejects are returned with '-' separators and otherwise untouched.
func Canonical(tag string) string {
	dashed := strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	t, err := language.Parse(dashed)
	if err != nil {
		return dashed
	}
	return t.String()
}

// Underscore returns the Hunspell file spelling of tag ("en-us" -> "en_US").
func Underscore(tag string) string {
	return strings.ReplaceAll(Canonical(tag), "-", "_")
}

// Base returns the language subtag ("en" for "en_US").
func Base(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "_-"); i >= 0 {
		return strings.ToLower(tag[:i])
	}
	return strings.ToLower(tag)
}

// Best picks the entry of available that best serves the preferred tags.
// It returns "" when nothing matches with at least high confidence on the
// base language.
func Best(preferred, available []string) string {
	if len(available) == 0 {
		return ""
	}
	supported := make([]language.Tag, 0, len(available))
	index := make([]int, 0, len(available))
	for i, a := range available {
		t, err := language.Parse(strings.ReplaceAll(a, "_", "-"))
		if err != nil {
			continue
		}
		supported = append(supported, t)
		index = append(index, i)
	}
	if len(supported) == 0 {
		return ""
	}
	want := make([]language.Tag, 0, len(preferred))
	for _, p := range preferred {
		t, err := language.Parse(strings.ReplaceAll(p, "_", "-"))
		if err != nil {
			continue
		}
		want = append(want, t)
	}
	if len(want) == 0 {
		return ""
	}
	m := language.NewMatcher(supported)
	_, i, conf := m.Match(want...)
	if conf < language.High {
		return ""
	}
	return available[index[i]]
}

// SystemLanguages returns the user's preferred locales as reported by the
// operating system, in BCP 47 form. Errors yield nil.
func SystemLanguages() []string {
	tags, err := locale.GetLocales()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, Canonical(t))
		}
	}
	return out
}
