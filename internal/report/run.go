package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Run summarises one pipeline execution for the optional JSON run report.
type Run struct {
	ID              string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	CatalogDocument string    `json:"catalog_document"`
	SalesDocument   string    `json:"sales_document"`
	Completed       bool      `json:"completed"`
	CatalogAccepted int       `json:"catalog_accepted"`
	CatalogRejected int       `json:"catalog_rejected"`
	SalesAccepted   int       `json:"sales_accepted"`
	SalesRejected   int       `json:"sales_rejected"`
	JoinMisses      int       `json:"join_misses"`
	Total           float64   `json:"total"`
	FormattedTotal  string    `json:"formatted_total,omitempty"`
	Output          []string  `json:"output"`
}

// NewRun starts a run record with a fresh ID.
func NewRun(catalogDoc, salesDoc string) *Run {
	return &Run{
		ID:              uuid.NewString(),
		StartedAt:       time.Now().UTC(),
		CatalogDocument: catalogDoc,
		SalesDocument:   salesDoc,
	}
}

// WriteFile stores the run as indented JSON.
func (r *Run) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run report: %w", err)
	}
	return nil
}
