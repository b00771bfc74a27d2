package workload

// lowPerformanceThreshold is the current-completion percentage at or below
// which a candidate counts as a low performer.
const lowPerformanceThreshold = 80.0

// PerformanceSnapshot captures one candidate's monthly performance at a
// point in time. Ratios are percentages; a zero denominator always yields
// a zero ratio.
type PerformanceSnapshot struct {
	CandidateID string  `json:"candidate_id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	DonePoints  float64 `json:"done_points"`
	TotalPoints float64 `json:"total_points"`

	// SelectedPoints is DonePoints or TotalPoints depending on the metric
	// kind the snapshot was built for.
	SelectedPoints float64 `json:"selected_points"`

	TargetPoints        float64 `json:"target_points"`
	CurrentTargetPoints float64 `json:"current_target_points"`

	CompletionRatio        float64 `json:"completion_ratio"`
	CurrentCompletionRatio float64 `json:"current_completion_ratio"`
}

// NewPerformanceSnapshot builds a snapshot from reduced point sums, the
// candidate's configured monthly target, and the business-day progress
// through the month.
func NewPerformanceSnapshot(c Candidate, sums PointSums, targetPoints int, kind MetricKind, elapsedDays, totalDays int) PerformanceSnapshot {
	s := PerformanceSnapshot{
		CandidateID:  c.ID,
		DisplayName:  c.DisplayName,
		Email:        c.Email,
		DonePoints:   sums.Done,
		TotalPoints:  sums.Total,
		TargetPoints: float64(targetPoints),
	}

	s.SelectedPoints = sums.Total
	if kind == KindDone {
		s.SelectedPoints = sums.Done
	}

	if totalDays > 0 {
		s.CurrentTargetPoints = s.TargetPoints * float64(elapsedDays) / float64(totalDays)
	}
	if s.TargetPoints > 0 {
		s.CompletionRatio = s.SelectedPoints / s.TargetPoints * 100
	}
	if s.CurrentTargetPoints > 0 {
		s.CurrentCompletionRatio = s.SelectedPoints / s.CurrentTargetPoints * 100
	}
	return s
}

// IsLowPerformer reports whether the candidate is at or below the low
// performance threshold against the prorated target.
func (s PerformanceSnapshot) IsLowPerformer() bool {
	return s.CurrentCompletionRatio <= lowPerformanceThreshold
}
