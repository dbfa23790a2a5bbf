package index

// Posting records that a term occurs at a given 0-based token offset within a document.
type Posting struct {
	DocID    string // Caller-assigned document identifier
	Position int    // Token offset of the occurrence within the document
}

// PostingList is a slice of Posting.
// Entries are kept in insertion order: documents in build order, then position within the document.
// None of the retrieval models depends on this order, but it keeps builds reproducible.
type PostingList []Posting
