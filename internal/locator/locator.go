// Package locator finds bundled dictionary files on disk and builds the
// download URLs for dictionaries that are not bundled.
package locator

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultBaseURL is where .bdic dictionaries are fetched from unless
// SetBaseURL changed it.
const DefaultBaseURL = "https://redirector.gvt1.com/edgedl/chrome/dictionaries/"

const defaultVersion = "3-0"

// unpackedSuffix is appended to an archive path element to get the sibling
// directory that holds files extracted from the archive.
const unpackedSuffix = ".unpacked"

// Languages published under a newer dictionary format version than defaultVersion.
var versionOverrides = map[string]string{
	"en-au": "8-0",
	"en-ca": "8-0",
	"en-gb": "8-0",
	"en-us": "8-0",
	"fa-ir": "8-0",
	"ko":    "4-0",
	"nb-no": "3-1",
	"pt-br": "5-0",
	"pt-pt": "5-0",
	"sh":    "4-0",
	"sr":    "4-0",
	"tg-tg": "5-0",
}

// Languages whose dictionary file names carry no region suffix.
var languageOnly = map[string]bool{
	"hy": true,
	"ko": true,
	"sh": true,
	"sq": true,
	"sr": true,
	"ta": true,
}

var (
	baseMu  sync.RWMutex
	baseURL = DefaultBaseURL
)

// SetBaseURL changes the download base URL for the whole process. An empty
// url restores DefaultBaseURL.
func SetBaseURL(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultBaseURL
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	baseMu.Lock()
	baseURL = url
	baseMu.Unlock()
}

// BaseURL returns the current process-wide download base URL.
func BaseURL() string {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return baseURL
}

// DownloadURL returns the URL of the .bdic file for tag. When base is empty
// the process-wide BaseURL is used.
func DownloadURL(tag, base string) string {
	if base == "" {
		base = BaseURL()
	} else if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	name := FileName(tag)
	version, ok := versionOverrides[name]
	if !ok {
		version = defaultVersion
	}
	return base + name + "-" + version + ".bdic"
}

// FileName normalizes tag to the lower-case, dash separated name used by the
// dictionary server ("en_US" -> "en-us", "sr_RS" -> "sr").
func FileName(tag string) string {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	if i := strings.IndexByte(name, '-'); i > 0 && languageOnly[name[:i]] {
		name = name[:i]
	}
	return name
}

// Locator resolves the directory holding bundled dictionaries.
type Locator struct {
	dir      string
	suffixes []string
}

// New returns a Locator for dir. archiveSuffixes name the path element
// suffixes of read-only packaged containers; ".asar" is used when none are given.
func New(dir string, archiveSuffixes ...string) *Locator {
	if len(archiveSuffixes) == 0 {
		archiveSuffixes = []string{".asar"}
	}
	return &Locator{dir: dir, suffixes: archiveSuffixes}
}

// ResolveDictionaryDirectory returns the dictionary directory. When the
// configured directory lives inside a packaged archive, the matching
// unpacked sibling is returned if it exists; otherwise the configured path
// is returned as is.
func (l *Locator) ResolveDictionaryDirectory() string {
	if l == nil {
		return ""
	}
	clean := filepath.Clean(l.dir)
	parts := strings.Split(clean, string(filepath.Separator))
	rewritten := false
	for i, p := range parts {
		if l.isArchive(p) {
			parts[i] = p + unpackedSuffix
			rewritten = true
		}
	}
	if !rewritten {
		return l.dir
	}
	candidate := strings.Join(parts, string(filepath.Separator))
	if candidate == "" {
		return l.dir
	}
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return l.dir
}

func (l *Locator) isArchive(elem string) bool {
	for _, s := range l.suffixes {
		if s != "" && strings.HasSuffix(elem, s) {
			return true
		}
	}
	return false
}
