package tokenizer

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// Processor turns raw text into index terms: lowercase, tokenize, drop stopwords, stem.
// The same Processor must be used for documents and queries.
// A Processor is immutable after construction and safe for concurrent use.
type Processor struct {
	stopwords map[string]struct{}
	stem      bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithStopwords replaces the default English stopword list.
func WithStopwords(words []string) Option {
	return func(p *Processor) {
		p.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			p.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithoutStemming keeps tokens in their surface form.
func WithoutStemming() Option {
	return func(p *Processor) {
		p.stem = false
	}
}

// NewProcessor creates a Processor with English stopwords and snowball stemming.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		stopwords: DefaultStopwords(),
		stem:      true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process returns the index terms of text in document order. Never nil.
func (p *Processor) Process(text string) []string {
	tokens := Tokenize(text)

	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if p.IsStopword(token) {
			continue
		}
		if p.stem {
			token = english.Stem(token, false)
		}
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// IsStopword reports whether token is dropped by the processor.
func (p *Processor) IsStopword(token string) bool {
	_, ok := p.stopwords[token]
	return ok
}

// Stemming reports whether the processor stems tokens.
func (p *Processor) Stemming() bool {
	return p.stem
}
