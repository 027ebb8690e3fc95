package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p7raneeth/docqa/internal/core/domain"
	"github.com/p7raneeth/docqa/internal/core/ports/driven"
)

func llmSettings() domain.LLMSettings {
	return domain.LLMSettings{Provider: domain.AIProviderOpenAI, Model: "gpt-4o", Temperature: 0.1, MaxTokens: 1000}
}

func TestFormatContext(t *testing.T) {
	chunks := []domain.RetrievalResult{
		{Content: "The capital of France is Paris.", PageNumber: domain.PageRef(1)},
		{Content: "Unpaged text."},
	}

	got := FormatContext(chunks)

	assert.Equal(t,
		"[Source 1 — Page 1]\nThe capital of France is Paris.\n\n[Source 2 — Page N/A]\nUnpaged text.",
		got)
}

func TestAnswerGenerator_BuildMessages_WithContext(t *testing.T) {
	g := NewAnswerGenerator(&mockLLM{}, llmSettings(), 4, 0)
	chunks := []domain.RetrievalResult{{Content: "Paris is the capital.", PageNumber: domain.PageRef(3)}}

	msgs := g.BuildMessages("What is the capital?", chunks, nil)

	require.Len(t, msgs, 2)
	assert.Equal(t, driven.ChatRoleSystem, msgs[0].Role)
	assert.Equal(t, defaultAnswerSystemPrompt, msgs[0].Content)
	assert.Equal(t, driven.ChatRoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "[Source 1 — Page 3]\nParis is the capital.")
	assert.Contains(t, msgs[1].Content, "Question: What is the capital?")
	assert.NotContains(t, msgs[1].Content, NoContextMessage)
}

func TestAnswerGenerator_BuildMessages_NoContext(t *testing.T) {
	g := NewAnswerGenerator(&mockLLM{}, llmSettings(), 4, 0)

	msgs := g.BuildMessages("Who wrote it?", nil, nil)

	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, NoContextMessage)
	assert.Contains(t, msgs[1].Content, "Question: Who wrote it?")
	assert.NotContains(t, msgs[1].Content, "[Source")
}

func TestAnswerGenerator_BuildMessages_BoundsHistory(t *testing.T) {
	g := NewAnswerGenerator(&mockLLM{}, llmSettings(), 4, 0)
	h := history("u1", "a1", "u2", "a2", "u3", "a3")

	msgs := g.BuildMessages("q", nil, h)

	require.Len(t, msgs, 6)
	assert.Equal(t, driven.ChatRoleSystem, msgs[0].Role)
	got := []driven.ChatMessage{msgs[1], msgs[2], msgs[3], msgs[4]}
	assert.Equal(t, []driven.ChatMessage{
		{Role: "user", Content: "u2"},
		{Role: "assistant", Content: "a2"},
		{Role: "user", Content: "u3"},
		{Role: "assistant", Content: "a3"},
	}, got)
	assert.Equal(t, driven.ChatRoleUser, msgs[5].Role)
}

func TestAnswerGenerator_Generate(t *testing.T) {
	llm := &mockLLM{replies: []string{"Paris [Source 1]."}}
	g := NewAnswerGenerator(llm, llmSettings(), 4, 0)

	answer, err := g.Generate(context.Background(), "capital?",
		[]domain.RetrievalResult{{Content: "Paris", PageNumber: domain.PageRef(1)}}, nil)

	require.NoError(t, err)
	assert.Equal(t, "Paris [Source 1].", answer)
	require.Equal(t, 1, llm.callCount())
	assert.InDelta(t, 0.1, llm.opts[0].Temperature, 1e-9)
	assert.Equal(t, 1000, llm.opts[0].MaxTokens)
}

func TestAnswerGenerator_Generate_Failure(t *testing.T) {
	upstream := errors.New("overloaded")
	llm := &mockLLM{err: upstream}
	g := NewAnswerGenerator(llm, llmSettings(), 4, 0)

	_, err := g.Generate(context.Background(), "q", nil, nil)

	assert.ErrorIs(t, err, domain.ErrGenerationFailure)
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, 1, llm.callCount(), "no retries")
}

func TestAnswerGenerator_Generate_NilModel(t *testing.T) {
	g := NewAnswerGenerator(nil, llmSettings(), 4, 0)

	_, err := g.Generate(context.Background(), "q", nil, nil)

	assert.ErrorIs(t, err, domain.ErrGenerationFailure)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestAnswerGenerator_CustomPrompts(t *testing.T) {
	g := NewAnswerGenerator(&mockLLM{}, llmSettings(), 0, 0)
	g.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptAnswerSystem:  "SYS",
		driven.PromptAnswerContext: "C=%s Q=%s",
	}})

	msgs := g.BuildMessages("q", []domain.RetrievalResult{{Content: "x"}}, history("ignored"))

	require.Len(t, msgs, 2)
	assert.Equal(t, "SYS", msgs[0].Content)
	assert.Equal(t, "C=[Source 1 — Page N/A]\nx Q=q", msgs[1].Content)
}
