package store

import (
	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// DocumentStore keeps the raw documents of a corpus for display, keyed by ID.
// It is filled once while the index is built and is read-only afterwards.
type DocumentStore struct {
	docs map[string]model.Document
	ids  []string // insertion order
}

// NewDocumentStore creates an empty store sized for n documents.
func NewDocumentStore(n int) *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]model.Document, n),
		ids:  make([]string, 0, n),
	}
}

// Add stores doc. IDs must be non-empty and unique.
func (ds *DocumentStore) Add(doc model.Document) error {
	if doc.ID == "" {
		return errors.NewValidationError("id", "document ID cannot be empty")
	}
	if _, exists := ds.docs[doc.ID]; exists {
		return errors.NewValidationError("id", "duplicate document ID '"+doc.ID+"'")
	}
	ds.docs[doc.ID] = doc
	ds.ids = append(ds.ids, doc.ID)
	return nil
}

// Get returns the document stored under docID.
func (ds *DocumentStore) Get(docID string) (model.Document, error) {
	doc, ok := ds.docs[docID]
	if !ok {
		return model.Document{}, errors.NewDocumentNotFoundError(docID)
	}
	return doc, nil
}

// IDs returns the document IDs in insertion order.
func (ds *DocumentStore) IDs() []string {
	ids := make([]string, len(ds.ids))
	copy(ids, ds.ids)
	return ids
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	return len(ds.ids)
}

// Preview returns a flattened excerpt of the document text, or "" for an unknown ID.
func (ds *DocumentStore) Preview(docID string, maxLen int) string {
	doc, ok := ds.docs[docID]
	if !ok {
		return ""
	}
	return doc.Preview(maxLen)
}

// Categories returns the category labels of a document, nil if it has none or is unknown.
func (ds *DocumentStore) Categories(docID string) []string {
	return ds.docs[docID].Categories
}
