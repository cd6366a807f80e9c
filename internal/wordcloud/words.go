package wordcloud

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`\p{L}[\p{L}\p{N}']+`)

// Word is a distinct token and how often it occurs.
type Word struct {
	Text  string
	Count int
}

// CountWords tokenizes text, folds case for counting, drops stopwords and
// returns words ordered by count (descending) then text (ascending). Each
// word keeps its most frequent surface form.
func CountWords(text string, stopwords map[string]struct{}) []Word {
	type entry struct {
		count int
		forms map[string]int
	}
	entries := make(map[string]*entry)

	for _, tok := range wordPattern.FindAllString(text, -1) {
		tok = strings.TrimSuffix(strings.TrimRight(tok, "'"), "'s")
		if len([]rune(tok)) < 2 {
			continue
		}
		key := strings.ToLower(tok)
		if _, stop := stopwords[key]; stop {
			continue
		}
		e, ok := entries[key]
		if !ok {
			e = &entry{forms: make(map[string]int)}
			entries[key] = e
		}
		e.count++
		e.forms[tok]++
	}

	words := make([]Word, 0, len(entries))
	for _, e := range entries {
		best, bestN := "", 0
		for form, n := range e.forms {
			if n > bestN || (n == bestN && form < best) {
				best, bestN = form, n
			}
		}
		words = append(words, Word{Text: best, Count: e.count})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Text < words[j].Text
	})
	return words
}
