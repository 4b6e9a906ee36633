package domain

// Document represents a single record in a collection
type Document map[string]interface{}

// Collection represents a named set of documents keyed by identity
type Collection struct {
	Name      string              `json:"name"`
	Documents map[string]Document `json:"documents"`
}

// NewCollection creates a new empty collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:      name,
		Documents: make(map[string]Document),
	}
}

// Copy returns a shallow copy of the document. Callers that hand documents
// across the store boundary copy first so the store never aliases caller
// memory.
func (d Document) Copy() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
