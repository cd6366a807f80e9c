package wordcloud

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var englishStopwords = strings.Fields(`
a about above after again against all also am an and any are aren't as at
be because been before being below between both but by
can can't cannot com could couldn't
did didn't do does doesn't doing don't down during
each else ever few for from further
get had hadn't has hasn't have haven't having he he'd he'll he's hence her
here here's hers herself him himself his how how's however http
i i'd i'll i'm i've if in into is isn't it it's its itself just k
let's like me more most mustn't my myself
no nor not of off on once only or other otherwise ought our ours ourselves
out over own r same shall shan't she she'd she'll she's should shouldn't
since so some such than that that's the their theirs them themselves then
there there's therefore these they they'd they'll they're they've this
those through to too under until up very was wasn't we we'd we'll we're
we've were weren't what what's when when's where where's which while who
who's whom why why's with won't would wouldn't www you you'd you'll you're
you've your yours yourself yourselves
`)

// DefaultStopwords returns a fresh copy of the built-in English stopword set.
func DefaultStopwords() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopwords))
	for _, w := range englishStopwords {
		set[w] = struct{}{}
	}
	return set
}

// MergeStopwords returns the union of the given sets, lower-cased.
func MergeStopwords(sets ...map[string]struct{}) map[string]struct{} {
	merged := make(map[string]struct{})
	for _, set := range sets {
		for w := range set {
			merged[strings.ToLower(w)] = struct{}{}
		}
	}
	return merged
}

type stopwordFile struct {
	Stopwords []string `yaml:"stopwords"`
}

// LoadStopwords reads extra stopwords from a YAML file. Both a top-level
// list and a mapping with a "stopwords" list are accepted.
func LoadStopwords(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}

	var words []string
	if err := yaml.Unmarshal(data, &words); err != nil {
		var file stopwordFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse stopwords %s: %w", path, err)
		}
		words = file.Stopwords
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set, nil
}
