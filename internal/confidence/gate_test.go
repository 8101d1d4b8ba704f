package confidence

import (
	"math"
	"testing"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{-0.2, 0},
		{1.7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		eval      models.ConfidenceEvaluation
		threshold float64
		want      Classification
	}{
		{
			name:      "above threshold",
			eval:      models.ConfidenceEvaluation{Confidence: 0.9, Source: constants.SourceModel},
			threshold: 0.75,
			want:      Classification{Pass: true},
		},
		{
			name:      "exactly threshold",
			eval:      models.ConfidenceEvaluation{Confidence: 0.75, Source: constants.SourceModel},
			threshold: 0.75,
			want:      Classification{Pass: true},
		},
		{
			name:      "below threshold",
			eval:      models.ConfidenceEvaluation{Confidence: 0.6, Source: constants.SourceModel},
			threshold: 0.75,
			want:      Classification{},
		},
		{
			name:      "hard block source beats high score",
			eval:      models.ConfidenceEvaluation{Confidence: 1, Source: constants.SourceHardBlock},
			threshold: 0.1,
			want:      Classification{HardBlocked: true},
		},
		{
			name:      "hard block code beats high score",
			eval:      models.ConfidenceEvaluation{Confidence: 0.99, Source: constants.SourceModel, HardBlockCode: "opt_out"},
			threshold: 0.5,
			want:      Classification{HardBlocked: true},
		},
		{
			name:      "out of range score is clamped",
			eval:      models.ConfidenceEvaluation{Confidence: 7, Source: constants.SourceModel},
			threshold: 1,
			want:      Classification{Pass: true},
		},
		{
			name:      "NaN score never passes",
			eval:      models.ConfidenceEvaluation{Confidence: math.NaN(), Source: constants.SourceModel},
			threshold: 0.01,
			want:      Classification{},
		},
		{
			name:      "threshold above one is clamped",
			eval:      models.ConfidenceEvaluation{Confidence: 1, Source: constants.SourceModel},
			threshold: 3,
			want:      Classification{Pass: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.eval, tt.threshold); got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	in := models.ConfidenceEvaluation{Confidence: -3, Reason: "garbled"}
	out := Normalize(in)
	if out.Confidence != 0 || out.Reason != "garbled" {
		t.Errorf("Normalize() = %+v", out)
	}
	if in.Confidence != -3 {
		t.Error("Normalize mutated its input")
	}
}
