package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvoss/hearth/internal/domain"
)

func TestIsSafetyFiltered(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{
			name:    "content filtering phrase",
			message: "The response was filtered due to content filtering rules",
			want:    true,
		},
		{
			name:    "content management policy phrase",
			message: "blocked by Content Management Policy violation",
			want:    true,
		},
		{
			name:    "content filter phrase with mixed case",
			message: "Triggered Azure CONTENT FILTER",
			want:    true,
		},
		{
			name:    "unrelated error",
			message: "model not found",
			want:    false,
		},
		{
			name:    "empty message",
			message: "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, domain.IsSafetyFiltered(tt.message))
		})
	}
}

func TestSafetyProne(t *testing.T) {
	t.Run("should flag models with a substitute", func(t *testing.T) {
		require.True(t, domain.SafetyProne("openai"))
		require.True(t, domain.SafetyProne("openai-large"))
	})

	t.Run("should not flag other models", func(t *testing.T) {
		require.False(t, domain.SafetyProne("claude"))
		require.False(t, domain.SafetyProne("unity"))
	})
}
