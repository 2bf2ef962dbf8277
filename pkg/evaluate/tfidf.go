package evaluate

import (
	"math"
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases text and extracts word unigrams and bigrams.
func tokenize(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	terms := make([]string, 0, len(words)*2)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// tfidfCosine computes the cosine similarity of two texts over a shared
// TF-IDF vector space of word unigrams and bigrams, with smoothed inverse
// document frequency and L2 normalisation. Either side empty yields 0;
// identical texts yield 1.
func tfidfCosine(a, b string) float64 {
	termsA := tokenize(a)
	termsB := tokenize(b)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0
	}

	tfA := termCounts(termsA)
	tfB := termCounts(termsB)

	// document frequency over the two-document corpus
	df := make(map[string]int, len(tfA)+len(tfB))
	for term := range tfA {
		df[term]++
	}
	for term := range tfB {
		df[term]++
	}

	idf := func(term string) float64 {
		// smoothed: ln((1+n)/(1+df)) + 1 with n = 2 documents
		return math.Log(3.0/float64(1+df[term])) + 1
	}

	var dot, normA, normB float64
	for term, countA := range tfA {
		w := float64(countA) * idf(term)
		normA += w * w
		if countB, ok := tfB[term]; ok {
			dot += w * float64(countB) * idf(term)
		}
	}
	for term, countB := range tfB {
		w := float64(countB) * idf(term)
		normB += w * w
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}
