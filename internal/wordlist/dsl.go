package wordlist

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/sagerenn/spelld/internal/indexcache"
)

// unsorted parts of a DSL headword: "{the} word" and "word{(s)}"
var dslBraces = regexp.MustCompile(`\{[^}]*\}`)

// loadDSL collects the headwords of an ABBYY Lingvo DSL file. DSL sources
// are usually UTF-16LE with a byte order mark.
func loadDSL(name, path string) (*List, error) {
	if idx, ok, err := indexcache.Load(path, FormatDSL); err == nil && ok {
		return New(name, idx.Words), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []string
	scanner := bufio.NewScanner(strings.NewReader(decodeText(data, "UTF-16LE")))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue
		}
		head := strings.TrimSpace(dslBraces.ReplaceAllString(line, ""))
		head = strings.ReplaceAll(head, `\`, "")
		for _, w := range strings.Fields(head) {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	l := New(name, words)
	_ = indexcache.Save(path, FormatDSL, l.Words())
	return l, nil
}
