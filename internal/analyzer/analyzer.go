// Package analyzer computes elementary statistics over a text body: word
// and sentence counts, a word-length histogram and a few lexical extras.
//
// Words are whitespace-delimited tokens. A word's length is the rune count
// after stripping leading and trailing punctuation and symbols; inner
// hyphens, apostrophes and digits count. A token made only of punctuation
// keeps its raw length, so the histogram always sums to the word count.
package analyzer

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	hardSentenceWords  = 20
	complexWordLetters = 6
	hardComplexWords   = 3
	maxRepeatedPhrases = 5
)

// Result is the derived analysis of one body. It is never persisted.
type Result struct {
	WordCount     int
	SentenceCount int

	// Histogram maps word length to the number of words of that length.
	Histogram map[int]int

	UniqueWords       int
	LexicalDiversity  float64
	AverageWordLength float64
	LongestWord       string

	// RareWordRatio is the share of words that are not common English
	// stopwords.
	RareWordRatio float64

	// AverageConsonants is consonant letters per word. Only Latin letters
	// other than a, e, i, o, u count.
	AverageConsonants float64

	// Cohesion is the mean Jaccard overlap of the word sets of adjacent
	// sentences. A single sentence has cohesion 1.
	Cohesion float64

	Sentences        []Sentence
	RepeatedBigrams  []Bigram
	RepeatedTrigrams []Trigram
}

// Sentence is one segment of the body ending at a terminator.
type Sentence struct {
	Text  string
	Words int

	// Hard is set for long sentences or ones dense with long words.
	Hard bool
}

// Bigram is an adjacent word pair seen more than once.
type Bigram struct {
	First  string
	Second string
	Count  int
}

// Trigram is an adjacent word triple seen more than once.
type Trigram struct {
	First  string
	Second string
	Third  string
	Count  int
}

// LengthCount is one histogram bar.
type LengthCount struct {
	Length int
	Count  int
}

// Analyze computes the Result for body. Empty input yields zero counts and
// an empty histogram.
func Analyze(body string) *Result {
	res := &Result{
		Histogram:       make(map[int]int),
		Sentences:        []Sentence{},
		RepeatedBigrams:  []Bigram{},
		RepeatedTrigrams: []Trigram{},
	}

	tokens := strings.Fields(body)
	res.WordCount = len(tokens)

	unique := make(map[string]bool, len(tokens))
	words := make([]string, 0, len(tokens))
	totalLetters := 0
	consonants := 0
	rare := 0
	longest := 0

	for _, tok := range tokens {
		word := StripPunctuation(tok)
		if word == "" {
			res.Histogram[utf8.RuneCountInString(tok)]++
			continue
		}

		n := utf8.RuneCountInString(word)
		res.Histogram[n]++
		totalLetters += n
		if n > longest {
			longest = n
			res.LongestWord = word
		}

		folded := strings.ToLower(word)
		unique[folded] = true
		words = append(words, folded)
		consonants += countConsonants(folded)
		if !isStopword(folded) {
			rare++
		}
	}

	res.UniqueWords = len(unique)
	if len(words) > 0 {
		res.LexicalDiversity = round2(float64(len(unique)) / float64(len(words)))
		res.AverageWordLength = round2(float64(totalLetters) / float64(len(words)))
		res.AverageConsonants = round2(float64(consonants) / float64(len(words)))
		res.RareWordRatio = round2(float64(rare) / float64(len(words)))
	}

	segments := SplitSentences(body)
	for _, seg := range segments {
		res.Sentences = append(res.Sentences, classifySentence(seg))
	}
	res.SentenceCount = len(res.Sentences)
	res.Cohesion = cohesion(segments)

	for _, p := range repeatedPhrases(words, 2) {
		res.RepeatedBigrams = append(res.RepeatedBigrams, Bigram{First: p.words[0], Second: p.words[1], Count: p.count})
	}
	for _, p := range repeatedPhrases(words, 3) {
		res.RepeatedTrigrams = append(res.RepeatedTrigrams, Trigram{First: p.words[0], Second: p.words[1], Third: p.words[2], Count: p.count})
	}

	return res
}

// Lengths returns the histogram as bars sorted by length ascending.
func (r *Result) Lengths() []LengthCount {
	out := make([]LengthCount, 0, len(r.Histogram))
	for length, count := range r.Histogram {
		out = append(out, LengthCount{Length: length, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })
	return out
}

// HardSentences counts sentences flagged as hard.
func (r *Result) HardSentences() int {
	n := 0
	for _, s := range r.Sentences {
		if s.Hard {
			n++
		}
	}
	return n
}

// StripPunctuation removes leading and trailing punctuation and symbol
// runes from tok.
func StripPunctuation(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func classifySentence(text string) Sentence {
	s := Sentence{Text: text}

	complexWords := 0
	for _, tok := range strings.Fields(text) {
		word := StripPunctuation(tok)
		if word == "" {
			continue
		}
		s.Words++
		if utf8.RuneCountInString(word) > complexWordLetters {
			complexWords++
		}
	}

	s.Hard = s.Words > hardSentenceWords || complexWords > hardComplexWords
	return s
}

type phrase struct {
	words []string
	count int
}

// repeatedPhrases returns the n-word sequences seen more than once, most
// frequent first and ties in lexical order, capped at maxRepeatedPhrases.
func repeatedPhrases(words []string, n int) []phrase {
	counts := make(map[string]int)
	for i := 0; i+n <= len(words); i++ {
		counts[strings.Join(words[i:i+n], " ")]++
	}

	out := []phrase{}
	for key, c := range counts {
		if c > 1 {
			out = append(out, phrase{words: strings.Split(key, " "), count: c})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		for k := range out[i].words {
			if out[i].words[k] != out[j].words[k] {
				return out[i].words[k] < out[j].words[k]
			}
		}
		return false
	})

	if len(out) > maxRepeatedPhrases {
		out = out[:maxRepeatedPhrases]
	}
	return out
}

func countConsonants(word string) int {
	n := 0
	for _, r := range word {
		if r >= 'a' && r <= 'z' && !strings.ContainsRune("aeiou", r) {
			n++
		}
	}
	return n
}

// cohesion averages the Jaccard index of each adjacent sentence pair.
func cohesion(sentences []string) float64 {
	switch len(sentences) {
	case 0:
		return 0
	case 1:
		return 1
	}

	total := 0.0
	prev := wordSet(sentences[0])
	for _, s := range sentences[1:] {
		cur := wordSet(s)
		total += jaccard(prev, cur)
		prev = cur
	}
	return round3(total / float64(len(sentences)-1))
}

func wordSet(sentence string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(sentence) {
		if w := StripPunctuation(tok); w != "" {
			set[strings.ToLower(w)] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if b[w] {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
