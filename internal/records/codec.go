package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"contract-backend/internal/analysis"
)

// recordBody is the on-disk shape. Pointers distinguish missing fields from zero values.
type recordBody struct {
	WordCount *int            `json:"word_count"`
	Summary   *string         `json:"summary"`
	Health    analysis.Health `json:"contract_health,omitempty"`
}

func validatePayload(payload analysis.Result) error {
	if payload.WordCount < 0 {
		return fmt.Errorf("%w: negative word count %d", ErrInvalidPayload, payload.WordCount)
	}
	return nil
}

func encodeRecord(payload analysis.Result) ([]byte, error) {
	payload = payload.Normalize()
	return json.MarshalIndent(recordBody{
		WordCount: &payload.WordCount,
		Summary:   &payload.Summary,
		Health:    payload.Health,
	}, "", "    ")
}

// decodeRecord parses a stored body. Records written before health was
// persisted get it derived from the word count; a stored health that
// disagrees with the word count is rejected.
func decodeRecord(data []byte) (analysis.Result, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var body recordBody
	if err := dec.Decode(&body); err != nil {
		return analysis.Result{}, err
	}
	if body.WordCount == nil {
		return analysis.Result{}, errors.New("missing word_count")
	}
	if body.Summary == nil {
		return analysis.Result{}, errors.New("missing summary")
	}
	return checkResult(analysis.Result{
		WordCount: *body.WordCount,
		Summary:   *body.Summary,
		Health:    body.Health,
	})
}

func checkResult(res analysis.Result) (analysis.Result, error) {
	if res.WordCount < 0 {
		return analysis.Result{}, fmt.Errorf("negative word_count %d", res.WordCount)
	}
	if res.Health == "" {
		return res.Normalize(), nil
	}
	if !res.Health.Valid() {
		return analysis.Result{}, fmt.Errorf("unknown contract_health %q", res.Health)
	}
	if !res.Consistent() {
		return analysis.Result{}, fmt.Errorf("contract_health %q inconsistent with word_count %d", res.Health, res.WordCount)
	}
	return res, nil
}
