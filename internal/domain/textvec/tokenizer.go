package textvec

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of letters and digits of length two or more.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// Tokenizer splits tag text into lowercase tokens and drops stop words.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer creates a tokenizer using the given stop-word set.
func NewTokenizer(stopWords []string) *Tokenizer {
	return &Tokenizer{stopWords: stopWordSet(stopWords)}
}

// Tokenize returns the surviving tokens of text in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := t.stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// IsStopWord reports whether the lowercase token is filtered.
func (t *Tokenizer) IsStopWord(token string) bool {
	_, ok := t.stopWords[token]
	return ok
}
