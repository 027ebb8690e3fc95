package driven

// PromptStore provides access to prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptQueryRewrite turns a follow-up into a standalone question.
	// The template expects %s (conversation history) then %s (current query).
	PromptQueryRewrite = "query_rewrite"

	// PromptAnswerSystem is the system instruction for grounded answering.
	// This prompt has no format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerContext wraps retrieved context and the question.
	// The template expects %s (labelled context blocks) then %s (question).
	PromptAnswerContext = "answer_context"

	// PromptAnswerNoContext is used when retrieval found nothing.
	// The template expects %s (question).
	PromptAnswerNoContext = "answer_no_context"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use built-in default prompts.
	SetPromptStore(store PromptStore)
}
