package records

import (
	"time"

	"contract-backend/internal/analysis"
)

// StoredRecord is one saved analysis, immutable once written.
type StoredRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	analysis.Result
}
