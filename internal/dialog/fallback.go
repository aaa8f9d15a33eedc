// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dialog

import (
	"sort"
	"strings"
	"unicode"
)

// stopwords are words too common to carry search signal in the local
// fallback extraction.
var stopwords = map[string]bool{
	"about": true, "after": true, "all": true, "also": true, "and": true,
	"any": true, "are": true, "because": true, "been": true, "before": true,
	"being": true, "between": true, "both": true, "but": true, "can": true,
	"could": true, "discuss": true, "does": true, "find": true, "finding": true,
	"focusing": true, "for": true, "from": true, "has": true, "have": true,
	"her": true, "him": true, "his": true, "how": true, "interested": true,
	"into": true, "its": true, "like": true, "looking": true, "many": true,
	"more": true, "most": true, "much": true, "not": true, "our": true,
	"out": true, "over": true, "papers": true, "particularly": true,
	"published": true, "research": true, "see": true, "should": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "these": true, "they": true, "this": true,
	"those": true, "used": true, "very": true, "want": true, "was": true,
	"were": true, "what": true, "when": true, "where": true, "which": true,
	"while": true, "will": true, "with": true, "would": true, "you": true,
}

// fallbackKeywords extracts up to maxKeywords keywords from text by word
// frequency, skipping stopwords and words shorter than three letters. Used
// when the language model is unavailable; crude, but enough to keep a
// search usable.
func fallbackKeywords(text string, maxKeywords int) []string {
	counts := make(map[string]int)
	var order []string

	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		word = strings.Trim(word, "-")
		if len(word) < 3 || stopwords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	// Most frequent first; first occurrence breaks ties so output is
	// deterministic.
	rank := make(map[string]int, len(order))
	for i, w := range order {
		rank[w] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return rank[order[i]] < rank[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
