package note

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern  = regexp.MustCompile(`#([a-zA-Z0-9_]+)`)
	wordPattern = regexp.MustCompile(`\b\w{4,}\b`)
)

// ExtractTags returns the #tag tokens in content, in order, without the '#'.
// Duplicates are kept.
func ExtractTags(content string) []string {
	matches := tagPattern.FindAllStringSubmatch(content, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// WordCount counts whitespace-separated words. Blank text has zero words.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"from": true, "up": true, "about": true, "into": true, "through": true,
	"during": true, "before": true, "after": true, "above": true, "below": true,
	"between": true, "among": true, "this": true, "that": true, "these": true,
	"those": true, "are": true, "was": true, "were": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"must": true, "can": true,
}

// Keyword is a word and its frequency in a text.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// MaxKeywords is the number of keywords Keywords returns at most.
const MaxKeywords = 10

// Keywords returns the most frequent words of four or more characters,
// ignoring stop words. Equal counts keep first-appearance order.
func Keywords(text string) []Keyword {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	index := make(map[string]int)
	var out []Keyword
	for _, w := range words {
		if stopWords[w] {
			continue
		}
		if i, ok := index[w]; ok {
			out[i].Count++
			continue
		}
		index[w] = len(out)
		out = append(out, Keyword{Word: w, Count: 1})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > MaxKeywords {
		out = out[:MaxKeywords]
	}
	return out
}

// Summarize joins the first five sentences longer than twenty characters.
// Returns "" when no sentence qualifies.
func Summarize(text string) string {
	var picked []string
	for _, s := range strings.Split(text, ".") {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > 20 {
			picked = append(picked, s)
			if len(picked) == 5 {
				break
			}
		}
	}
	if len(picked) == 0 {
		return ""
	}
	return strings.Join(picked, ". ") + "."
}

// HighlightTerms are the study terms flagged in page text.
var HighlightTerms = []string{
	"definition", "summary", "important", "formula", "key point",
	"remember", "note", "conclusion", "example", "theorem",
	"algorithm", "concept", "principle", "rule", "method",
}

var highlightPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(HighlightTerms))
	for i, term := range HighlightTerms {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return out
}()

// Highlights counts whole-word, case-insensitive occurrences of each
// highlight term. Terms that do not occur are omitted.
func Highlights(text string) []Keyword {
	var out []Keyword
	for i, re := range highlightPatterns {
		if n := len(re.FindAllStringIndex(text, -1)); n > 0 {
			out = append(out, Keyword{Word: HighlightTerms[i], Count: n})
		}
	}
	return out
}
