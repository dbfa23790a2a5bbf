package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// Reuters evaluation defaults.
var DefaultReutersCategories = []string{"acq", "earn", "crude", "trade", "money-fx"}

const (
	DefaultReutersSampleSize  = 1000
	DefaultReutersPerCategory = 100

	reutersCategoriesFile = "cats.txt"
)

// reutersSplits are the sub-directories holding the documents of the NLTK layout.
var reutersSplits = []string{"test", "training"}

// LoadReuters loads the NLTK packaging of Reuters-21578: cats.txt plus one plain-text file per
// document under training/ and test/. Document IDs are the file IDs ("training/9865"), and the
// first sampleSize of them in sorted order are loaded; non-positive loads everything.
// The title is the first non-empty line of a document.
func LoadReuters(dir string, sampleSize int) (*Corpus, error) {
	categories, fileCategories, err := loadReutersCategories(dir)
	if err != nil {
		return nil, err
	}

	fileIDs, err := reutersFileIDs(dir)
	if err != nil {
		return nil, err
	}
	if sampleSize > 0 && len(fileIDs) > sampleSize {
		fileIDs = fileIDs[:sampleSize]
	}

	docs := make([]model.Document, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(fileID)))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fileID, err)
		}
		text := strings.ToValidUTF8(string(raw), "")
		docs = append(docs, model.Document{
			ID:         fileID,
			Title:      firstLine(text),
			Text:       text,
			Categories: fileCategories[fileID],
		})
	}

	return &Corpus{
		Name:       "Reuters",
		Kind:       KindReuters,
		Documents:  docs,
		Categories: categories,
	}, nil
}

// loadReutersCategories reads cats.txt, whose lines are "<fileid> <category>...".
// It returns category -> sorted file IDs and file ID -> categories.
func loadReutersCategories(dir string) (map[string][]string, map[string][]string, error) {
	path := filepath.Join(dir, reutersCategoriesFile)
	f, err := openCorpusFile(KindReuters, path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	categories := make(map[string][]string)
	fileCategories := make(map[string][]string)
	err = readLines(f, func(_ int, line string) error {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return nil
		}
		fileID := parts[0]
		for _, category := range parts[1:] {
			categories[category] = append(categories[category], fileID)
		}
		fileCategories[fileID] = append(fileCategories[fileID], parts[1:]...)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for category := range categories {
		sort.Strings(categories[category])
	}
	return categories, fileCategories, nil
}

// reutersFileIDs lists every document file under the split directories as sorted file IDs.
func reutersFileIDs(dir string) ([]string, error) {
	fileIDs := make([]string, 0)
	found := false
	for _, split := range reutersSplits {
		root := filepath.Join(dir, split)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		found = true

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			fileIDs = append(fileIDs, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", root, err)
		}
	}
	if !found {
		return nil, errors.NewCorpusNotFoundError(string(KindReuters), dir)
	}

	sort.Strings(fileIDs)
	return fileIDs, nil
}

// ReutersTestQueries builds one query per category, the query text being the category name and
// the relevant documents the first perCategory documents labelled with it.
// Categories with no documents are skipped. A non-positive perCategory takes every document.
func ReutersTestQueries(c *Corpus, categories []string, perCategory int) []TestQuery {
	tests := make([]TestQuery, 0, len(categories))
	for _, category := range categories {
		fileIDs := c.Categories[category]
		if len(fileIDs) == 0 {
			continue
		}
		if perCategory > 0 && len(fileIDs) > perCategory {
			fileIDs = fileIDs[:perCategory]
		}

		relevant := make([]string, len(fileIDs))
		copy(relevant, fileIDs)
		tests = append(tests, TestQuery{ID: category, Query: category, Relevant: relevant})
	}
	return tests
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
