package models

import "github.com/travelhub/seatmap-service/internal/seatmap"

// SeatMapResponse is the full seat map of a trip for display
type SeatMapResponse struct {
	Trip    *Trip                `json:"trip"`
	Seats   []seatmap.Seat       `json:"seats"`
	Summary seatmap.Summary      `json:"summary"`
	Layout  []seatmap.PreviewRow `json:"layout"`
}

// ReconcileResult reports what a reconciliation run did (or would do, for a dry run)
type ReconcileResult struct {
	TripID   string             `json:"trip_id"`
	DryRun   bool               `json:"dry_run"`
	Attempts int                `json:"attempts"`
	Counts   seatmap.PlanCounts `json:"counts"`
	Plan     seatmap.Plan       `json:"plan"`
}

// BatchReconcileResult reports a reconciliation sweep over many trips
type BatchReconcileResult struct {
	Checked     int                `json:"checked"`
	Reconciled  int                `json:"reconciled"`
	Unchanged   int                `json:"unchanged"`
	Failed      int                `json:"failed"`
	Failures    map[string]string  `json:"failures,omitempty"`
	TotalCounts seatmap.PlanCounts `json:"total_counts"`
}
