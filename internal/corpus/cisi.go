package corpus

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// CISI file names inside the collection directory.
const (
	CISIDocumentsFile = "CISI.ALL"
	CISIQueriesFile   = "CISI.QRY"
	CISIRelevanceFile = "CISI.REL"

	cisiIDPrefix = "CISI_"
)

// DefaultCISIQueries is the number of CISI queries used for evaluation.
const DefaultCISIQueries = 5

// cisiRecord is one ".I" record of a CISI file.
type cisiRecord struct {
	id      string
	title   []string
	content []string
}

// parseCISIRecords reads the ".I <n>" records of a CISI file. Lines under one of the
// contentFields markers (".T", ".W", ...) are kept, trimmed, in file order; every other dotted
// field is skipped. Records without content are dropped. A repeated ID keeps its first position
// and takes the later content.
func parseCISIRecords(path, contentFields string) ([]cisiRecord, error) {
	f, err := openCorpusFile(KindCISI, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		records  []cisiRecord
		position = make(map[string]int)
		current  *cisiRecord
		field    byte
	)

	flush := func() {
		if current == nil || len(current.content) == 0 {
			return
		}
		if i, seen := position[current.id]; seen {
			records[i] = *current
			return
		}
		position[current.id] = len(records)
		records = append(records, *current)
	}

	err = readLines(f, func(lineNo int, line string) error {
		switch {
		case strings.HasPrefix(line, ".I"):
			flush()
			parts := strings.Fields(line)
			if len(parts) < 2 {
				return errors.NewValidationError("corpus", fmt.Sprintf("%s:%d: record marker without an ID", filepath.Base(path), lineNo))
			}
			current = &cisiRecord{id: parts[1]}
			field = 0
		case strings.HasPrefix(line, "."):
			field = 0
			if len(line) >= 2 && strings.IndexByte(contentFields, line[1]) >= 0 {
				field = line[1]
			}
		case field != 0 && current != nil:
			text := strings.TrimSpace(line)
			if text == "" {
				return nil
			}
			current.content = append(current.content, text)
			if field == 'T' {
				current.title = append(current.title, text)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	flush()
	return records, nil
}

// LoadCISI loads the CISI document collection from dir/CISI.ALL.
// Title, abstract and author lines make up the document text; document IDs are CISI_<n>.
func LoadCISI(dir string) (*Corpus, error) {
	records, err := parseCISIRecords(filepath.Join(dir, CISIDocumentsFile), "TWA")
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, len(records))
	for i, r := range records {
		docs[i] = model.Document{
			ID:    cisiIDPrefix + r.id,
			Title: strings.Join(r.title, " "),
			Text:  strings.Join(r.content, " "),
		}
	}
	return &Corpus{
		Name:       "CISI",
		Kind:       KindCISI,
		Documents:  docs,
		Categories: map[string][]string{},
	}, nil
}

// CISIQuery is a query read from CISI.QRY.
type CISIQuery struct {
	ID   string
	Text string
}

// LoadCISIQueries reads the queries of dir/CISI.QRY in file order.
func LoadCISIQueries(dir string) ([]CISIQuery, error) {
	records, err := parseCISIRecords(filepath.Join(dir, CISIQueriesFile), "W")
	if err != nil {
		return nil, err
	}

	queries := make([]CISIQuery, len(records))
	for i, r := range records {
		queries[i] = CISIQuery{ID: r.id, Text: strings.Join(r.content, " ")}
	}
	return queries, nil
}

// LoadCISIRelevance reads dir/CISI.REL into query ID -> relevant document numbers.
// Lines with fewer than two fields are ignored.
func LoadCISIRelevance(dir string) (map[string]map[string]struct{}, error) {
	path := filepath.Join(dir, CISIRelevanceFile)
	f, err := openCorpusFile(KindCISI, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	relevance := make(map[string]map[string]struct{})
	err = readLines(f, func(_ int, line string) error {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil
		}
		queryID, docID := parts[0], parts[1]
		if relevance[queryID] == nil {
			relevance[queryID] = make(map[string]struct{})
		}
		relevance[queryID][docID] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return relevance, nil
}

// CISITestQueries pairs the CISI queries with their relevance judgments, in query file order.
// Queries without judgments are skipped. At most maxQueries are returned; non-positive means all.
func CISITestQueries(dir string, maxQueries int) ([]TestQuery, error) {
	queries, err := LoadCISIQueries(dir)
	if err != nil {
		return nil, err
	}
	relevance, err := LoadCISIRelevance(dir)
	if err != nil {
		return nil, err
	}

	tests := make([]TestQuery, 0)
	for _, q := range queries {
		if maxQueries > 0 && len(tests) >= maxQueries {
			break
		}
		judged, ok := relevance[q.ID]
		if !ok {
			continue
		}

		relevant := make([]string, 0, len(judged))
		for docID := range judged {
			relevant = append(relevant, cisiIDPrefix+docID)
		}
		sortDocIDs(relevant)
		tests = append(tests, TestQuery{ID: q.ID, Query: q.Text, Relevant: relevant})
	}
	return tests, nil
}

// sortDocIDs orders IDs by their numeric suffix when they have one, then lexically.
func sortDocIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		ni, erri := strconv.Atoi(numericSuffix(ids[i]))
		nj, errj := strconv.Atoi(numericSuffix(ids[j]))
		if erri == nil && errj == nil && ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})
}

func numericSuffix(id string) string {
	if i := strings.LastIndexAny(id, "_-/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
