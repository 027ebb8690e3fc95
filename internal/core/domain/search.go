package domain

// Role identifies the speaker of a conversation message.
type Role string

// Roles accepted in conversation history.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is one turn of conversation history. History is owned by the
// caller and passed in with every query.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// QueryRequest is a question against the indexed documents.
type QueryRequest struct {
	// Query is the user's question.
	Query string `json:"query" validate:"required,max=5000"`

	// History is the prior conversation, oldest first.
	History []Message `json:"conversation_history,omitempty" validate:"dive"`

	// TopK is the number of chunks to retrieve. Zero selects the configured default.
	TopK int `json:"top_k,omitempty" validate:"gte=0"`
}

// RetrievalResult is one ranked chunk returned by a vector search.
type RetrievalResult struct {
	// Content is the chunk text.
	Content string `json:"content"`

	// Score is the inner product between the normalised query and chunk vectors.
	Score float64 `json:"score"`

	// ChunkID identifies the chunk in the index.
	ChunkID string `json:"chunk_id"`

	// PageNumber is the page the chunk came from, nil when unknown.
	PageNumber *int `json:"page_number,omitempty"`

	// Filename is the source document's filename.
	Filename string `json:"filename,omitempty"`
}

// Metadata returns the chunk metadata carried by the result.
func (r RetrievalResult) Metadata() ChunkMetadata {
	return ChunkMetadata{Filename: r.Filename, PageNumber: r.PageNumber}
}

// QueryResponse is the answer to a QueryRequest.
type QueryResponse struct {
	// Answer is the completion model's reply, verbatim.
	Answer string `json:"answer"`

	// Query is the question as asked.
	Query string `json:"query"`

	// ResolvedQuery is the standalone form used for retrieval.
	ResolvedQuery string `json:"resolved_query"`

	// Sources are the chunks the answer was grounded on, in rank order.
	Sources []RetrievalResult `json:"sources"`
}

// IndexStats reports the size of the vector index.
// TotalChunks and IndexedVectors are always equal.
type IndexStats struct {
	TotalChunks    int `json:"total_chunks"`
	IndexedVectors int `json:"indexed_vectors"`
}

// PreviewLength is how much chunk text driving adapters show per source.
const PreviewLength = 200

// Preview returns the first n runes of the content, with "..." appended
// when it was cut.
func (r RetrievalResult) Preview(n int) string {
	runes := []rune(r.Content)
	if len(runes) <= n {
		return r.Content
	}
	return string(runes[:n]) + "..."
}
