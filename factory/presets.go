/*
presets.go - Canned rotation system definitions

PURPOSE:
  JSON builders for the common rotation patterns so deployments start from a
  working system instead of a blank schema: classic three-shift, four-crew
  three-shift, and standard office hours. The output feeds ParseSystem, same
  as any hand-written document.
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"
)

// ThreeShiftJSON builds a classic three-shift rotation: morning, afternoon,
// graveyard, then a rest day, over a 4-day cycle.
func ThreeShiftJSON(id, name string, cycleStart time.Time) string {
	sj := SystemJSON{
		ID:             id,
		Name:           name,
		SystemType:     "three_shift",
		CycleType:      "custom_days",
		CycleDays:      4,
		CycleStartDate: cycleStart.Format("2006-01-02"),
		Shifts: []ShiftJSON{
			{ID: "morning", Name: "Morning", Type: "morning", WorkStart: "06:00", WorkEnd: "14:00"},
			{ID: "afternoon", Name: "Afternoon", Type: "afternoon", WorkStart: "14:00", WorkEnd: "22:00"},
			{ID: "graveyard", Name: "Graveyard", Type: "graveyard", WorkStart: "22:00", WorkEnd: "06:00"},
		},
		Sequence: []string{"morning", "afternoon", "graveyard", ""},
		Rule: &RuleJSON{
			LateToleranceMinutes:       10,
			EarlyLeaveToleranceMinutes: 10,
		},
		Handover: &HandoverJSON{WindowMinutes: 30},
		Priority: 10,
		Status:   "active",
	}
	return mustMarshal(sj)
}

// FourShiftJSON builds a four-crew three-shift rotation: each crew works
// morning, afternoon, graveyard, then rests two days over a 6-day cycle.
// crewOffset (0-3) staggers the cycle start so the four crews cover every
// slot; pass each crew its own offset.
func FourShiftJSON(id, name string, cycleStart time.Time, crewOffset int) string {
	sj := SystemJSON{
		ID:             id,
		Name:           name,
		SystemType:     "four_shift",
		CycleType:      "custom_days",
		CycleDays:      6,
		CycleStartDate: cycleStart.AddDate(0, 0, -crewOffset).Format("2006-01-02"),
		Shifts: []ShiftJSON{
			{ID: "morning", Name: "Morning", Type: "morning", WorkStart: "07:00", WorkEnd: "15:00"},
			{ID: "afternoon", Name: "Afternoon", Type: "afternoon", WorkStart: "15:00", WorkEnd: "23:00"},
			{ID: "graveyard", Name: "Graveyard", Type: "graveyard", WorkStart: "23:00", WorkEnd: "07:00"},
		},
		Sequence: []string{"morning", "morning", "afternoon", "graveyard", "", ""},
		Rule: &RuleJSON{
			LateToleranceMinutes:       5,
			EarlyLeaveToleranceMinutes: 5,
			Overtime:                   &OvertimeJSON{Allow: true, GraceMinutes: 30, MaxDailyMinutes: 180},
		},
		Handover: &HandoverJSON{WindowMinutes: 30},
		Priority: 10,
		Status:   "active",
	}
	return mustMarshal(sj)
}

// StandardOfficeJSON builds 09:00-18:00 office hours with a lunch rest
// window, Monday-through-Sunday daily cycle.
func StandardOfficeJSON(id, name string) string {
	sj := SystemJSON{
		ID:         id,
		Name:       name,
		SystemType: "standard",
		CycleType:  "daily",
		Shifts: []ShiftJSON{
			{ID: "day", Name: "Day", Type: "morning",
				WorkStart: "09:00", WorkEnd: "18:00",
				RestStart: "12:00", RestEnd: "13:00"},
		},
		Rule: &RuleJSON{
			LateToleranceMinutes:       10,
			EarlyLeaveToleranceMinutes: 10,
			Overtime:                   &OvertimeJSON{Allow: true},
		},
		Priority: 1,
		Status:   "active",
	}
	return mustMarshal(sj)
}

func mustMarshal(sj SystemJSON) string {
	b, err := json.MarshalIndent(sj, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("preset marshal: %v", err))
	}
	return string(b)
}
