package organize

import "time"

// Move reasons as they appear in cycle reports and plan previews.
const (
	ReasonClassified = "classified"
	ReasonGrouped    = "grouped"
	ReasonRegrouped  = "regrouped"
	ReasonReview     = "review"
	ReasonPrune      = "prune"
)

// Move records one relocation a cycle performed, or a plan proposed. Prune
// entries carry an empty Dest.
type Move struct {
	Source string
	Dest   string
	Reason string
}

// CycleReport summarizes one scan cycle (or one plan preview).
type CycleReport struct {
	Examined      int
	FilesMoved    int
	FoldersMoved  int
	GroupsCreated int
	ReviewMoves   int
	FoldersPruned int
	Skipped       int
	Errors        int
	Duration      time.Duration
	Moves         []Move
}

// TotalMoved counts every item that changed location during the cycle.
func (r *CycleReport) TotalMoved() int {
	return r.FilesMoved + r.FoldersMoved + r.ReviewMoves
}

func (r *CycleReport) record(source, dest, reason string) {
	r.Moves = append(r.Moves, Move{Source: source, Dest: dest, Reason: reason})
}
