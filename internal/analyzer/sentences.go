package analyzer

import "strings"

// isTerminator reports whether r ends a sentence.
func isTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// SplitSentences splits body after each run of terminators and returns the
// trimmed segments that contain more than whitespace and terminators. A
// non-empty body without terminators is one sentence.
func SplitSentences(body string) []string {
	var out []string
	var cur strings.Builder
	inTerminators := false

	flush := func() {
		seg := strings.TrimSpace(cur.String())
		cur.Reset()
		if strings.TrimFunc(seg, isTerminator) != "" {
			out = append(out, seg)
		}
	}

	for _, r := range body {
		if inTerminators && !isTerminator(r) {
			flush()
			inTerminators = false
		}
		cur.WriteRune(r)
		if isTerminator(r) {
			inTerminators = true
		}
	}
	flush()

	return out
}
