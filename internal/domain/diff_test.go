package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/pricesync/internal/domain"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"fireworks_ai/accounts/fireworks/models/llama-v3", "llama-v3"},
		{"fireworks_ai/Llama-V3", "llama-v3"},
		{"accounts/fireworks/models/llama-v3", "llama-v3"},
		{"  Llama-V3  ", "llama-v3"},
		{"gpt-4o", "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.Equal(t, tt.expected, domain.NormalizeKey(tt.key))
		})
	}
}

func TestFindMissing(t *testing.T) {
	dataset := &domain.ReferenceDataset{
		Keys: []string{
			"sample_spec",
			"gpt-4o",
			"fireworks_ai/accounts/fireworks/models/llama-v3",
			"fireworks_ai/mixtral_8x7b_instruct",
			"fireworks_ai/nomic-ai/nomic-embed-text-v1.5",
			"fireworks_ai/qwen2p5-coder-32b",
		},
	}

	records := []domain.ModelRecord{
		{DisplayName: "Llama V3", Identifier: "Llama-V3"},
		{DisplayName: "Mixtral 8x7B Instruct", Identifier: "mixtral-8x7b-instruct"},
		{DisplayName: "Qwen2.5 Coder 32B", Identifier: "qwen2p5-coder-32b-instruct"},
		{DisplayName: "Qwen2p5 Coder 32B", Identifier: "qwen-coder"},
		{DisplayName: "GPT 4o", Identifier: "gpt-4o"},
		{DisplayName: "Kimi K2 Instruct", Identifier: "kimi-k2-instruct"},
	}

	missing := domain.FindMissing(records, dataset)

	ids := make([]string, 0, len(missing))
	for _, r := range missing {
		ids = append(ids, r.Identifier)
	}

	require.Equal(t, []string{"qwen2p5-coder-32b-instruct", "gpt-4o", "kimi-k2-instruct"}, ids)
}

func TestFindMissing_NormalizationMakesRecordPresent(t *testing.T) {
	dataset := &domain.ReferenceDataset{
		Keys: []string{"fireworks_ai/accounts/fireworks/models/llama-v3"},
	}
	record := domain.ModelRecord{DisplayName: "Llama", Identifier: "Llama-V3"}

	require.NotEqual(t, dataset.Keys[0], record.Identifier)
	require.NotEqual(t, dataset.Keys[0], domain.NamespacedKey(record.Identifier))
	require.Empty(t, domain.FindMissing([]domain.ModelRecord{record}, dataset))
}

func TestFindMissing_EmptyDataset(t *testing.T) {
	records := []domain.ModelRecord{{Identifier: "a"}, {Identifier: "b"}}

	require.Len(t, domain.FindMissing(records, &domain.ReferenceDataset{}), 2)
	require.Len(t, domain.FindMissing(records, nil), 2)
}
