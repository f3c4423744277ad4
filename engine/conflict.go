/*
conflict.go - Schedule conflict and handover-gap detection

PURPOSE:
  Pure pairwise detection over a slice of schedule instances. Two kinds of
  findings:
    - time_overlap: one employee holds two non-terminal schedules whose
      expected work windows intersect
    - dangling_handover: an outgoing schedule mandates a handover but no
      successor schedule starts within the configured adjacency window

OVERLAP RULE:
  Windows are half-open [start, end): a.start < b.end AND b.start < a.end.
  Back-to-back schedules (one ends exactly when the next begins) do NOT
  overlap; that adjacency is precisely what a handover spans.

TERMINAL EXCLUSION:
  Cancelled and exchanged instances are skipped entirely. They are history,
  not commitments.
*/
package engine

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// CONFLICT TYPES
// =============================================================================

type ConflictType string

const (
	ConflictTimeOverlap      ConflictType = "time_overlap"
	ConflictDanglingHandover ConflictType = "dangling_handover"
)

// Conflict is one detected finding. ScheduleB is empty for findings that
// involve a single instance (dangling handover).
type Conflict struct {
	Type       ConflictType
	EmployeeID EmployeeID
	Date       time.Time
	ScheduleA  ScheduleID
	ScheduleB  ScheduleID
	Detail     string
}

// =============================================================================
// DETECTION
// =============================================================================

// DetectConflicts scans the given instances for per-employee time overlaps
// and for outgoing schedules with no handover successor. The handover config
// supplies the adjacency window; a zero window means exact adjacency only.
// Output order is deterministic: sorted by employee, then start time.
func DetectConflicts(schedules []RotationSchedule, handover HandoverConfig) []Conflict {
	active := make([]RotationSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Status.IsTerminal() {
			continue
		}
		if s.ExpectedWorkStart.IsZero() || s.ExpectedWorkEnd.IsZero() {
			continue
		}
		active = append(active, s)
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].EmployeeID != active[j].EmployeeID {
			return active[i].EmployeeID < active[j].EmployeeID
		}
		return active[i].ExpectedWorkStart.Before(active[j].ExpectedWorkStart)
	})

	var conflicts []Conflict
	conflicts = append(conflicts, detectOverlaps(active)...)
	conflicts = append(conflicts, detectDanglingHandovers(active, handover)...)
	return conflicts
}

// detectOverlaps reports every intersecting pair of windows held by the same
// employee. Input is sorted by employee then start, so each employee's
// instances are contiguous and each pair is reported once.
func detectOverlaps(sorted []RotationSchedule) []Conflict {
	var out []Conflict
	for i := 0; i < len(sorted); i++ {
		a := sorted[i]
		for j := i + 1; j < len(sorted) && sorted[j].EmployeeID == a.EmployeeID; j++ {
			b := sorted[j]
			if !windowsOverlap(a.ExpectedWorkStart, a.ExpectedWorkEnd, b.ExpectedWorkStart, b.ExpectedWorkEnd) {
				continue
			}
			out = append(out, Conflict{
				Type:       ConflictTimeOverlap,
				EmployeeID: a.EmployeeID,
				Date:       DateOnly(a.ScheduleDate),
				ScheduleA:  a.ScheduleID,
				ScheduleB:  b.ScheduleID,
				Detail: fmt.Sprintf("%s (%s) overlaps %s (%s)",
					a.ShiftName, formatWindow(a), b.ShiftName, formatWindow(b)),
			})
		}
	}
	return out
}

// detectDanglingHandovers flags outgoing instances that mandate a handover
// yet have no successor starting within [workEnd, workEnd+window]. Successors
// belong to a DIFFERENT employee taking over the post; an employee cannot
// hand over to themselves.
func detectDanglingHandovers(active []RotationSchedule, handover HandoverConfig) []Conflict {
	window := time.Duration(handover.WindowMinutes) * time.Minute

	var out []Conflict
	for _, s := range active {
		if !s.RequiresHandover() && !handover.RequiresHandoverFor(s.ShiftType) {
			continue
		}
		if s.HandoverComplete() {
			continue
		}
		if hasSuccessor(active, s, window) {
			continue
		}
		out = append(out, Conflict{
			Type:       ConflictDanglingHandover,
			EmployeeID: s.EmployeeID,
			Date:       DateOnly(s.ScheduleDate),
			ScheduleA:  s.ScheduleID,
			Detail: fmt.Sprintf("%s ends %s with no incoming schedule within %dm",
				s.ShiftName, s.ExpectedWorkEnd.Format("15:04"), handover.WindowMinutes),
		})
	}
	return out
}

func hasSuccessor(active []RotationSchedule, outgoing RotationSchedule, window time.Duration) bool {
	for _, c := range active {
		if c.ScheduleID == outgoing.ScheduleID || c.EmployeeID == outgoing.EmployeeID {
			continue
		}
		gap := c.ExpectedWorkStart.Sub(outgoing.ExpectedWorkEnd)
		if gap >= 0 && gap <= window {
			return true
		}
	}
	return false
}

// windowsOverlap applies the half-open intersection rule.
func windowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func formatWindow(s RotationSchedule) string {
	return s.ExpectedWorkStart.Format("01-02 15:04") + " to " + s.ExpectedWorkEnd.Format("01-02 15:04")
}
