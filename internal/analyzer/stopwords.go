package analyzer

import (
	_ "embed"
	"strings"
)

// English stopwords, one per line, lower case.
//
//go:embed stopwords.txt
var stopwordList string

var stopwords = func() map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(stopwordList) {
		set[w] = true
	}
	return set
}()

func isStopword(word string) bool {
	return stopwords[strings.ReplaceAll(word, "’", "'")]
}
