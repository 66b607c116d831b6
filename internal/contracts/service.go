package contracts

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"contract-backend/internal/analysis"
	"contract-backend/internal/extract"
	"contract-backend/internal/records"
	"contract-backend/internal/sessions"
	"contract-backend/internal/shared/metrics"
	"contract-backend/internal/shared/telemetry"
)

// PendingStore keeps the latest unevaluated analysis on a session.
type PendingStore interface {
	SetPending(ctx context.Context, sess sessions.Session, res analysis.Result) (sessions.Session, error)
	ClearPending(ctx context.Context, sess sessions.Session) (sessions.Session, error)
}

// Service runs the analyze, evaluate and save flow for one user.
type Service struct {
	Extractor extract.Extractor
	Records   records.Repo
	Pending   PendingStore
}

// NewService constructs a Service.
func NewService(extractor extract.Extractor, repo records.Repo, pending PendingStore) *Service {
	return &Service{Extractor: extractor, Records: repo, Pending: pending}
}

// Analyze extracts the document text, analyzes it and keeps the result as
// the session's pending analysis.
func (s *Service) Analyze(ctx context.Context, sess sessions.Session, data []byte, mimeType, fileName string) (analysis.Result, error) {
	start := time.Now()
	text, err := s.Extractor.Extract(ctx, data, mimeType, fileName)
	if err != nil {
		if errors.Is(err, extract.ErrExtractionFailed) {
			metrics.IncExtractionFailed()
		}
		return analysis.Result{}, err
	}

	res := analysis.Analyze(text)
	metrics.IncContractsAnalyzed()
	metrics.ObserveAnalysisDurationMs(metrics.SinceMillis(start))

	if s.Pending != nil {
		if _, err := s.Pending.SetPending(ctx, sess, res); err != nil {
			return analysis.Result{}, fmt.Errorf("store pending analysis: %w", err)
		}
	}
	telemetry.Info("contract.analyzed", map[string]any{
		"username":   sess.Username,
		"file_name":  fileName,
		"word_count": res.WordCount,
		"health":     string(res.Health),
	})
	return res, nil
}

// Evaluate produces the verdict for the given or pending analysis and,
// when requested, saves it under the session's username.
func (s *Service) Evaluate(ctx context.Context, sess sessions.Session, in EvaluateInput) (Evaluation, error) {
	var res analysis.Result
	switch {
	case in.Result != nil:
		if in.Result.WordCount < 0 {
			return Evaluation{}, fmt.Errorf("%w: word_count must not be negative", ErrInvalidInput)
		}
		if utf8.RuneCountInString(in.Result.Summary) > analysis.SummaryLength {
			return Evaluation{}, fmt.Errorf("%w: summary exceeds %d characters", ErrInvalidInput, analysis.SummaryLength)
		}
		res = in.Result.Normalize()
	case sess.Pending != nil:
		res = sess.Pending.Normalize()
	default:
		return Evaluation{}, ErrNoPendingAnalysis
	}

	out := Evaluation{Verdict: analysis.Evaluate(res), Result: res}
	if !in.Save {
		return out, nil
	}

	id, err := s.Records.Save(ctx, sess.Username, res)
	if err != nil {
		return Evaluation{}, err
	}
	metrics.IncContractsSaved()
	out.RecordID = id
	telemetry.Info("contract.saved", map[string]any{
		"username":  sess.Username,
		"record_id": id,
	})

	if s.Pending != nil && sess.Pending != nil {
		if _, err := s.Pending.ClearPending(ctx, sess); err != nil {
			telemetry.Warn("contract.pending_clear_failed", map[string]any{
				"username": sess.Username,
				"error":    err,
			})
		}
	}
	return out, nil
}

// List returns the saved records of owner, oldest first.
func (s *Service) List(ctx context.Context, owner string) ([]records.StoredRecord, error) {
	return s.Records.LoadAll(ctx, owner)
}
