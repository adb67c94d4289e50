package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/vigil-bot/vigil/automod/keyword"
)

const (
	// Vocabulary cap; the most frequent terms across the corpus win.
	MaxFeatures = 1500
)

var (
	urlToken     = regexp.MustCompile(`(?:https?://|www\.|t\.me/)\S+`)
	mentionToken = regexp.MustCompile(`@\w+`)
)

// Preprocess canonicalizes text for classification: URLs and @-handles are
// collapsed to marker tokens so that the models learn the shape of spam
// ("contains a link and a handle") rather than individual domains.
func Preprocess(text string) string {
	t := strings.ToLower(text)
	t = urlToken.ReplaceAllString(t, " urltok ")
	t = mentionToken.ReplaceAllString(t, " mentiontok ")
	return t
}

// Terms produces the unigram+bigram term list for a document.
func Terms(text string) []string {
	toks := keyword.TokenizeText(Preprocess(text))
	out := make([]string, 0, len(toks)*2)
	out = append(out, toks...)
	for i := 0; i+1 < len(toks); i++ {
		out = append(out, toks[i]+" "+toks[i+1])
	}
	return out
}

// Vectorizer maps documents to L2-normalized TF-IDF vectors over a fixed
// vocabulary. Immutable once built; safe for concurrent Transform calls.
type Vectorizer struct {
	Vocab map[string]int `json:"vocab"`
	IDF   []float64      `json:"idf"`
}

// BuildVectorizer fits vocabulary and inverse-document-frequency weights
// over the term lists of the training documents.
func BuildVectorizer(docs [][]string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = MaxFeatures
	}

	df := make(map[string]int)
	for _, terms := range docs {
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	type termFreq struct {
		term string
		df   int
	}
	all := make([]termFreq, 0, len(df))
	for t, n := range df {
		all = append(all, termFreq{t, n})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].df != all[j].df {
			return all[i].df > all[j].df
		}
		return all[i].term < all[j].term
	})
	if len(all) > maxFeatures {
		all = all[:maxFeatures]
	}

	v := &Vectorizer{
		Vocab: make(map[string]int, len(all)),
		IDF:   make([]float64, len(all)),
	}
	n := float64(len(docs))
	for i, tf := range all {
		v.Vocab[tf.term] = i
		// smoothed idf, as in standard tf-idf formulations
		v.IDF[i] = math.Log((1+n)/(1+float64(tf.df))) + 1
	}
	return v
}

func (v *Vectorizer) NumFeatures() int {
	return len(v.IDF)
}

// Transform converts a term list into a sparse, L2-normalized TF-IDF vector.
func (v *Vectorizer) Transform(terms []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := v.Vocab[t]; ok {
			vec[idx] += v.IDF[idx]
		}
	}
	var norm float64
	for _, val := range vec {
		norm += val * val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}
