package gemini

import (
	"math"
	"testing"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name            string
		model           string
		promptTokens    int
		candidateTokens int
		wantInput       float64
		wantOutput      float64
	}{
		{
			name:            "standard tier",
			model:           "gemini-2.5-pro-preview-05-06",
			promptTokens:    1000,
			candidateTokens: 500,
			wantInput:       0.00125,
			wantOutput:      0.005,
		},
		{
			name:            "long-context tier above the input threshold",
			model:           "gemini-2.5-pro-preview-05-06",
			promptTokens:    300_000,
			candidateTokens: 1000,
			wantInput:       0.75,
			wantOutput:      0.015,
		},
		{
			name:            "per-model rates",
			model:           "gemini-3-pro-preview",
			promptTokens:    1_000_000,
			candidateTokens: 1_000_000,
			wantInput:       2.00,
			wantOutput:      12.00,
		},
		{
			name:            "unknown model falls back to default rates",
			model:           "gemini-experimental",
			promptTokens:    1000,
			candidateTokens: 500,
			wantInput:       0.00125,
			wantOutput:      0.005,
		},
		{
			name:  "zero tokens cost nothing",
			model: "gemini-2.5-pro-preview-05-06",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateCost(tt.model, tt.promptTokens, tt.candidateTokens)
			if !approxEqual(got.inputCost, tt.wantInput) {
				t.Fatalf("input cost = %v, want %v", got.inputCost, tt.wantInput)
			}
			if !approxEqual(got.outputCost, tt.wantOutput) {
				t.Fatalf("output cost = %v, want %v", got.outputCost, tt.wantOutput)
			}
			if !approxEqual(got.totalCost, tt.wantInput+tt.wantOutput) {
				t.Fatalf("total cost = %v, want %v", got.totalCost, tt.wantInput+tt.wantOutput)
			}
		})
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
