// Package audit assigns reviewed reports to semester audit periods.
package audit

import "time"

type Semester string

const (
	FirstSemester  Semester = "1st"
	SecondSemester Semester = "2nd"
)

type Phase string

const (
	PhaseInitial Phase = "initial"
	PhaseFinal   Phase = "final"
)

type Assignment struct {
	Semester Semester `json:"semester"`
	Phase    Phase    `json:"phase"`
}

// Classify depends on the calendar month of now and nothing else:
//
//	Jan–Apr  2nd semester, initial
//	May–Sep  2nd semester, final
//	Oct–Nov  1st semester, initial
//	Dec      1st semester, final
func Classify(now time.Time) Assignment {
	switch m := now.Month(); {
	case m <= time.April:
		return Assignment{SecondSemester, PhaseInitial}
	case m <= time.September:
		return Assignment{SecondSemester, PhaseFinal}
	case m <= time.November:
		return Assignment{FirstSemester, PhaseInitial}
	default:
		return Assignment{FirstSemester, PhaseFinal}
	}
}

// YearBounds returns [Jan 1, next Jan 1) of now's year in UTC.
func YearBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
