package foldpipe

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// Text-domain processors: clean, tokenize, word_count, keywords. Each is a
// Chainable[any] built from params so they plug into registry pipelines
// alongside the matrix operators.

// TextClean strips every rune that is not a letter, digit or whitespace.
type TextClean struct{}

// NewTextClean builds a clean processor. It takes no parameters.
func NewTextClean(Params) (*TextClean, error) {
	return &TextClean{}, nil
}

// Name implements the Chainable interface.
func (p *TextClean) Name() Name { return "clean" }

// Process implements the Chainable interface.
func (p *TextClean) Process(_ context.Context, input any) (any, error) {
	text, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "clean", Expected: "a string", Value: input}
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// TextTokenize splits a string on whitespace runs.
type TextTokenize struct{}

// NewTextTokenize builds a tokenizer. It takes no parameters.
func NewTextTokenize(Params) (*TextTokenize, error) {
	return &TextTokenize{}, nil
}

// Name implements the Chainable interface.
func (p *TextTokenize) Name() Name { return "tokenize" }

// Process implements the Chainable interface.
func (p *TextTokenize) Process(_ context.Context, input any) (any, error) {
	text, ok := input.(string)
	if !ok {
		return nil, &InvalidInputError{Processor: "tokenize", Expected: "a string", Value: input}
	}
	return strings.Fields(text), nil
}

// WordCount maps each distinct whitespace-separated word to its occurrence
// count.
type WordCount struct{}

// NewWordCount builds a word counter. It takes no parameters.
func NewWordCount(Params) (*WordCount, error) {
	return &WordCount{}, nil
}

// Name implements the Chainable interface.
func (p *WordCount) Name() Name { return "word_count" }

// Process implements the Chainable interface.
func (p *WordCount) Process(_ context.Context, input any) (any, error) {
	words, err := wordsFrom("word_count", input)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(words))
	for _, word := range words {
		counts[word]++
	}
	return counts, nil
}

// defaultTopK is the keyword extractor's default result size.
const defaultTopK = 5

// Keywords extracts the top-k most frequent words from a string or a token
// list. Words of equal frequency keep their first-appearance order.
type Keywords struct {
	topK int
}

// NewKeywords builds a keyword extractor from params. Recognized key:
// "top_k" (default 5).
func NewKeywords(params Params) (*Keywords, error) {
	p := &Keywords{topK: defaultTopK}
	if k, ok := params.Int("top_k"); ok {
		if k < 0 {
			return nil, &ParameterError{
				Processor: "keywords",
				Parameter: "top_k",
				Value:     k,
				Expected:  "a non-negative count",
			}
		}
		p.topK = k
	} else if params.Has("top_k") {
		return nil, &ParameterError{
			Processor: "keywords",
			Parameter: "top_k",
			Value:     params["top_k"],
			Expected:  "an integer count",
		}
	}
	return p, nil
}

// Name implements the Chainable interface.
func (p *Keywords) Name() Name { return "keywords" }

// Process implements the Chainable interface.
func (p *Keywords) Process(_ context.Context, input any) (any, error) {
	words, err := wordsFrom("keywords", input)
	if err != nil {
		return nil, err
	}

	freq := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, word := range words {
		if _, seen := freq[word]; !seen {
			order = append(order, word)
		}
		freq[word]++
	}

	// Stable sort over first-appearance order keeps ties deterministic.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > p.topK {
		order = order[:p.topK]
	}
	return order, nil
}

// wordsFrom accepts a string (split on whitespace), a []string, or a []any
// of strings.
func wordsFrom(processor Name, input any) ([]string, error) {
	switch v := input.(type) {
	case string:
		return strings.Fields(v), nil
	case []string:
		return v, nil
	case []any:
		words := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, &InvalidInputError{Processor: processor, Expected: "a string or a list of words", Value: input}
			}
			words[i] = s
		}
		return words, nil
	default:
		return nil, &InvalidInputError{Processor: processor, Expected: "a string or a list of words", Value: input}
	}
}
