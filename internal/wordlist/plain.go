package wordlist

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/sagerenn/spelld/internal/indexcache"
)

// loadPlain reads one word per line (txt), the first column of a
// tab-separated file (tsv), or a JSON array of strings or of {"word": ...}
// objects (json).
func loadPlain(name, path, typ string) (*List, error) {
	if idx, ok, err := indexcache.Load(path, typ); err == nil && ok {
		return New(name, idx.Words), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []string
	if typ == FormatJSON {
		words, err = parseJSONWords(data)
	} else {
		words, err = parseLines(decodeText(data, ""), typ == FormatTSV)
	}
	if err != nil {
		return nil, err
	}
	l := New(name, words)
	_ = indexcache.Save(path, typ, l.Words())
	return l, nil
}

// ParseText reads a newline separated word list from memory.
func ParseText(name string, data []byte) (*List, error) {
	words, err := parseLines(decodeText(data, ""), false)
	if err != nil {
		return nil, err
	}
	return New(name, words), nil
}

func parseLines(text string, firstColumn bool) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if firstColumn {
			line = strings.TrimSpace(strings.SplitN(line, "\t", 2)[0])
		}
		if line != "" {
			words = append(words, line)
		}
	}
	return words, scanner.Err()
}

func parseJSONWords(data []byte) ([]string, error) {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain, nil
	}
	var entries []struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.New("json word list must be an array of strings or {\"word\": ...} objects")
	}
	words := make([]string, 0, len(entries))
	for _, e := range entries {
		words = append(words, e.Word)
	}
	return words, nil
}
