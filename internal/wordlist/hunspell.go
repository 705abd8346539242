package wordlist

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"github.com/sagerenn/spelld/internal/indexcache"
	"github.com/sagerenn/spelld/internal/langtag"
)

// ErrNotBundle is returned by ParseBundle for data that is not a zip archive.
var ErrNotBundle = errors.New("dictionary data is not a zip bundle")

// LoadHunspell reads the stems of a Hunspell dictionary. The .aff file is
// only consulted for its SET charset; affix rules are not expanded.
func LoadHunspell(affPath, dicPath string) (*List, error) {
	name := strings.TrimSuffix(filepath.Base(dicPath), filepath.Ext(dicPath))
	aff, err := os.ReadFile(affPath)
	if err != nil {
		return nil, err
	}
	if idx, ok, err := indexcache.Load(dicPath, FormatDic); err == nil && ok {
		return New(name, idx.Words), nil
	}
	dic, err := os.ReadFile(dicPath)
	if err != nil {
		return nil, err
	}
	l, err := ParseHunspell(name, aff, dic)
	if err != nil {
		return nil, err
	}
	_ = indexcache.Save(dicPath, FormatDic, l.Words())
	return l, nil
}

// ParseHunspell parses in-memory .aff and .dic contents.
func ParseHunspell(name string, aff, dic []byte) (*List, error) {
	if len(dic) == 0 {
		return nil, fmt.Errorf("%s: empty .dic", name)
	}
	charset := affCharset(aff)
	text := decodeText(dic, charset)
	words := make([]string, 0, 1024)
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}
		if line == "" || line[0] == '\t' || line[0] == '#' {
			continue
		}
		if w := stem(line); w != "" {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: no words in .dic", name)
	}
	return New(name, words), nil
}

// ParseBundle reads a zip archive (an .oxt extension or a plain zip) holding
// .aff/.dic pairs and returns the pair named after tag, or the only pair.
func ParseBundle(tag string, data []byte) (*List, error) {
	if !filetype.Is(data, "zip") {
		return nil, ErrNotBundle
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	affs := make(map[string]*zip.File)
	dics := make(map[string]*zip.File)
	for _, f := range zr.File {
		base := path.Base(f.Name)
		stemName := strings.TrimSuffix(base, path.Ext(base))
		switch strings.ToLower(path.Ext(base)) {
		case ".aff":
			affs[stemName] = f
		case ".dic":
			dics[stemName] = f
		}
	}
	pick := ""
	for n := range dics {
		if _, ok := affs[n]; !ok {
			continue
		}
		if langtag.Same(n, tag) {
			pick = n
			break
		}
		if pick == "" {
			pick = n
		} else {
			pick = "\x00"
		}
	}
	if pick == "" || pick == "\x00" {
		return nil, fmt.Errorf("bundle has no dictionary for %q", tag)
	}
	aff, err := readZipFile(affs[pick])
	if err != nil {
		return nil, err
	}
	dic, err := readZipFile(dics[pick])
	if err != nil {
		return nil, err
	}
	return ParseHunspell(pick, aff, dic)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func affCharset(aff []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(aff))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[0] == "SET" {
			return fields[1]
		}
	}
	return ""
}

func isCount(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stem strips flags ("word/AB") and morphological fields from a .dic line.
// "\/" is an escaped slash belonging to the word.
func stem(line string) string {
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '/' {
			b.WriteByte('/')
			i++
			continue
		}
		if c == '/' || c == '\t' || c == ' ' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}
