package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/finsight/internal/domain"
)

func TestCountTokensApproximate(t *testing.T) {
	svc := NewTokenizerService()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "Empty",
			text:     "",
			expected: 0,
		},
		{
			name:     "Short Phrase",
			text:     "hello world foo",
			expected: 6, // 3 words * 1.3 + 15 chars / 4
		},
		{
			name:     "Whitespace Only",
			text:     "    ",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := svc.CountTokens(tt.text, "claude-3-5-sonnet-latest")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestTrimToBudget(t *testing.T) {
	svc := NewTokenizerService()

	msg := func(content string) domain.ChatMessage {
		return domain.ChatMessage{
			Role:      domain.RoleUser,
			Content:   content,
			CreatedAt: time.Now(),
		}
	}

	// Each message counts 15 tokens on the approximate path:
	// 5 words * 1.3 = 6, 23 chars / 4 = 5, plus 4 overhead.
	history := []domain.ChatMessage{
		msg("one two three four five"),
		msg("one two three four five"),
		msg("one two three four five"),
	}

	t.Run("Fits Budget", func(t *testing.T) {
		out, err := svc.TrimToBudget(history, 100, "claude-3-5-sonnet-latest")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("Drops Oldest", func(t *testing.T) {
		out, err := svc.TrimToBudget(history, 35, "claude-3-5-sonnet-latest")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, history[1], out[0])
		assert.Equal(t, history[2], out[1])
	})

	t.Run("Always Keeps Last Message", func(t *testing.T) {
		out, err := svc.TrimToBudget(history, 1, "claude-3-5-sonnet-latest")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, history[2], out[0])
	})

	t.Run("Zero Budget Returns All", func(t *testing.T) {
		out, err := svc.TrimToBudget(history, 0, "claude-3-5-sonnet-latest")
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("Empty History", func(t *testing.T) {
		out, err := svc.TrimToBudget(nil, 100, "claude-3-5-sonnet-latest")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestGetContextSize(t *testing.T) {
	svc := NewTokenizerService()

	tests := []struct {
		model    string
		expected int
	}{
		{"claude-3-5-sonnet-latest", 200000},
		{"claude-3-5-haiku-latest", 200000},
		{"gpt-4o", 128000},
		{"gpt-4o-mini", 128000},
		{"gpt-4-turbo", 128000},
		{"llama3.1", 131072},
		{"mystery-model", 8192},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.GetContextSize(tt.model))
		})
	}
}

func TestIsWithinContext(t *testing.T) {
	svc := NewTokenizerService()

	assert.True(t, svc.IsWithinContext(199999, "claude-3-5-sonnet-latest"))
	assert.True(t, svc.IsWithinContext(200000, "claude-3-5-sonnet-latest"))
	assert.False(t, svc.IsWithinContext(200001, "claude-3-5-sonnet-latest"))
	assert.False(t, svc.IsWithinContext(10000, "mystery-model"))
}
