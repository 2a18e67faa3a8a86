// Package textvec turns tag text into TF-IDF weighted sparse vectors.
//
// Weight(r, t) = tf(r, t) * idf(t), where tf is the raw count of t in r and
// idf(t) = ln((1+N)/(1+df(t))) + 1. Vectors are not L2-normalized.
package textvec

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// ctxCheckEvery bounds how many documents are processed between context checks.
const ctxCheckEvery = 256

// Vocabulary is the term set of one Vectorize call, in sorted order.
type Vocabulary struct {
	terms []string
	index map[string]int
	idf   []float64
}

// Size returns the number of terms (the vector dimensionality).
func (v *Vocabulary) Size() int {
	if v == nil {
		return 0
	}
	return len(v.terms)
}

// Term returns the term at index i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Index returns the index of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// IDF returns the inverse document frequency of the term at index i.
func (v *Vocabulary) IDF(i int) float64 { return v.idf[i] }

// Option configures a Vectorizer.
type Option func(*Vectorizer)

// WithStopWords replaces the default stop-word list.
func WithStopWords(words []string) Option {
	return func(v *Vectorizer) { v.tokenizer = NewTokenizer(words) }
}

// Vectorizer builds TF-IDF vectors over a corpus. It holds no corpus state
// and is safe for concurrent use.
type Vectorizer struct {
	tokenizer *Tokenizer
}

// New creates a vectorizer with the default English stop words.
func New(opts ...Option) *Vectorizer {
	v := &Vectorizer{tokenizer: NewTokenizer(defaultStopWords)}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Tokenizer exposes the tokenizer in use.
func (v *Vectorizer) Tokenizer() *Tokenizer { return v.tokenizer }

// Vectorize derives a fresh vocabulary from docs and returns one vector per
// doc, aligned by position. An empty corpus yields no vectors and no error.
func (v *Vectorizer) Vectorize(ctx context.Context, docs []string) ([]Vector, *Vocabulary, error) {
	if len(docs) == 0 {
		return []Vector{}, &Vocabulary{index: map[string]int{}}, nil
	}

	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("tokenize corpus: %w", err)
			}
		}
		tokens := v.tokenizer.Tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	vocab := buildVocabulary(df, len(docs))

	vectors := make([]Vector, len(docs))
	for i, tokens := range tokenized {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("weight corpus: %w", err)
			}
		}
		tf := make(map[int]float64, len(tokens))
		for _, tok := range tokens {
			tf[vocab.index[tok]]++
		}
		for idx, count := range tf {
			tf[idx] = count * vocab.idf[idx]
		}
		vectors[i] = FromWeights(tf)
	}

	return vectors, vocab, nil
}

func buildVocabulary(df map[string]int, numDocs int) *Vocabulary {
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := &Vocabulary{
		terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(numDocs)
	for i, term := range terms {
		vocab.index[term] = i
		vocab.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return vocab
}
