package contracts

import (
	"contract-backend/internal/analysis"
	"contract-backend/internal/records"
)

type evaluateRequest struct {
	WordCount *int    `json:"word_count"`
	Summary   *string `json:"summary"`
	Save      bool    `json:"save"`
}

func (r evaluateRequest) toInput() EvaluateInput {
	in := EvaluateInput{Save: r.Save}
	if r.WordCount != nil {
		res := analysis.Result{WordCount: *r.WordCount}
		if r.Summary != nil {
			res.Summary = *r.Summary
		}
		in.Result = &res
	}
	return in
}

type evaluateResponse struct {
	Health    analysis.Health `json:"contract_health"`
	Message   string          `json:"message"`
	WordCount int             `json:"word_count"`
	Summary   string          `json:"summary"`
	ID        string          `json:"id,omitempty"`
}

func toEvaluateResponse(e Evaluation) evaluateResponse {
	return evaluateResponse{
		Health:    e.Health,
		Message:   e.Message,
		WordCount: e.Result.WordCount,
		Summary:   e.Result.Summary,
		ID:        e.RecordID,
	}
}

type listResponse struct {
	Owner   string                 `json:"owner"`
	Count   int                    `json:"count"`
	Records []records.StoredRecord `json:"records"`
}
