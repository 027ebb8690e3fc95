package services

import (
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
	"github.com/p7raneeth/docqa/internal/logger"
)

const defaultQueryRewritePrompt = `Given the conversation history below, determine if the current query is a follow-up question that needs context from the conversation.

Conversation History:
%s

Current Query: %s

Task:
1. If this is a standalone question (not referencing previous context), return it exactly as-is.
2. If this is a follow-up question (uses pronouns like "it", "that", "they" or references previous context), rewrite it to be self-contained by incorporating relevant context from the conversation history.

Return ONLY the query (original or rewritten), nothing else.

Rewritten Query:`

const defaultAnswerSystemPrompt = `You are a helpful AI assistant. Answer the user's question based on the provided context from the documents.
If the answer cannot be found in the context, say so clearly.
Always cite the source number when referencing information from the context.`

const defaultAnswerContextPrompt = `Context from documents:
%s

Question: %s

Please answer based on the context provided above.`

// NoContextMessage opens the user turn when retrieval returned nothing.
const NoContextMessage = "No relevant context found in the documents."

const defaultAnswerNoContextPrompt = NoContextMessage + `

Question: %s

Please let the user know that you don't have information about this in the uploaded documents.`

// DefaultPrompts returns the built-in prompt templates keyed by prompt name.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptQueryRewrite:    defaultQueryRewritePrompt,
		driven.PromptAnswerSystem:    defaultAnswerSystemPrompt,
		driven.PromptAnswerContext:   defaultAnswerContextPrompt,
		driven.PromptAnswerNoContext: defaultAnswerNoContextPrompt,
	}
}

// loadPrompt reads a template from the store, falling back to the built-in default.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		prompt, err := store.Load(name)
		if err == nil && prompt != "" {
			return prompt
		}
		if err != nil {
			logger.Warn("prompt %s: %v, using default", name, err)
		}
	}
	return DefaultPrompts()[name]
}
