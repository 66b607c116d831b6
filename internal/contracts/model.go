package contracts

import "contract-backend/internal/analysis"

// EvaluateInput carries an explicit analysis to evaluate. A nil Result
// means the session's pending analysis is used.
type EvaluateInput struct {
	Result *analysis.Result
	Save   bool
}

// Evaluation is the outcome of the evaluate step. RecordID is set when the
// result was saved.
type Evaluation struct {
	analysis.Verdict
	Result   analysis.Result
	RecordID string
}
