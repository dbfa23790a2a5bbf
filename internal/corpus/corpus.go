// Package corpus loads the document collections and relevance judgments the engine is built and
// evaluated on: CISI and Reuters-21578 (both the NLTK layout and the SGML distribution).
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// Kind names a supported collection format.
type Kind string

const (
	KindCISI        Kind = "cisi"
	KindReuters     Kind = "reuters"
	KindReutersSGML Kind = "reuters-sgml"
)

// Corpus is a loaded document collection.
type Corpus struct {
	Name      string
	Kind      Kind
	Documents []model.Document
	// Categories maps a category to the IDs labelled with it, over the whole collection
	// (not only the loaded sample). Empty for unlabelled collections.
	Categories map[string][]string
}

// TestQuery is a query with the set of documents judged relevant to it.
type TestQuery struct {
	ID       string   `json:"id"`
	Query    string   `json:"query"`
	Relevant []string `json:"relevant"`
}

// RelevantSet returns the relevant document IDs as a set.
func (q TestQuery) RelevantSet() map[string]struct{} {
	set := make(map[string]struct{}, len(q.Relevant))
	for _, id := range q.Relevant {
		set[id] = struct{}{}
	}
	return set
}

// ParseKind resolves a corpus kind name case-insensitively.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindCISI:
		return KindCISI, nil
	case KindReuters:
		return KindReuters, nil
	case KindReutersSGML:
		return KindReutersSGML, nil
	default:
		return "", errors.NewValidationError("corpus", fmt.Sprintf("unknown corpus '%s' (expected cisi, reuters or reuters-sgml)", name))
	}
}

// Load reads the collection of the given kind from dir.
// sampleSize limits the Reuters collections to their first documents; non-positive loads everything.
func Load(kind Kind, dir string, sampleSize int) (*Corpus, error) {
	switch kind {
	case KindCISI:
		return LoadCISI(dir)
	case KindReuters:
		return LoadReuters(dir, sampleSize)
	case KindReutersSGML:
		return LoadReutersSGML(dir, sampleSize)
	default:
		_, err := ParseKind(string(kind))
		return nil, err
	}
}

// TestQueries returns the evaluation queries of a loaded corpus.
// CISI queries are read from dir and limited to maxQueries; Reuters queries are built from the
// default categories, each with perCategory relevant documents.
func TestQueries(c *Corpus, dir string, maxQueries, perCategory int) ([]TestQuery, error) {
	switch c.Kind {
	case KindCISI:
		return CISITestQueries(dir, maxQueries)
	case KindReuters, KindReutersSGML:
		return ReutersTestQueries(c, DefaultReutersCategories, perCategory), nil
	default:
		return nil, errors.NewValidationError("corpus", fmt.Sprintf("no test queries for corpus kind '%s'", c.Kind))
	}
}

// DocumentIDs returns the IDs of the loaded documents in load order.
func (c *Corpus) DocumentIDs() []string {
	ids := make([]string, len(c.Documents))
	for i, doc := range c.Documents {
		ids[i] = doc.ID
	}
	return ids
}

// CategoryNames returns every category of the collection, sorted.
func (c *Corpus) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func openCorpusFile(kind Kind, path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewCorpusNotFoundError(string(kind), path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// readLines calls fn for every line of r with trailing whitespace removed.
// Invalid UTF-8 is dropped.
func readLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.ToValidUTF8(scanner.Text(), "")
		if err := fn(lineNo, strings.TrimRight(line, " \t\r\n")); err != nil {
			return err
		}
	}
	return scanner.Err()
}
