// Package assets embeds the default word list shipped with the binary.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed vocabulary.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// VocabularyList returns the embedded theme words, lowercased, in file order.
func VocabularyList() ([]string, error) {
	return readLines("vocabulary.txt")
}
