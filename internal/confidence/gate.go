// Package confidence decides whether an evaluated draft may be sent.
package confidence

import (
	"math"

	"github.com/julianstephens/autosend/internal/constants"
	"github.com/julianstephens/autosend/internal/models"
)

// Classification is the gate's verdict for one evaluation.
type Classification struct {
	Pass        bool
	HardBlocked bool
}

// Clamp maps a raw score into [0,1]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// IsHardBlocked reports whether the evaluation carries a compliance or safety
// block. A hard block is never overridden by the score.
func IsHardBlocked(eval models.ConfidenceEvaluation) bool {
	return eval.Source == constants.SourceHardBlock || eval.HardBlockCode != ""
}

// Classify applies the threshold to an evaluation.
func Classify(eval models.ConfidenceEvaluation, threshold float64) Classification {
	if IsHardBlocked(eval) {
		return Classification{HardBlocked: true}
	}
	return Classification{Pass: Clamp(eval.Confidence) >= Clamp(threshold)}
}

// Normalize returns a copy of eval with its confidence clamped.
func Normalize(eval models.ConfidenceEvaluation) models.ConfidenceEvaluation {
	eval.Confidence = Clamp(eval.Confidence)
	return eval
}
