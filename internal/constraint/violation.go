// Package constraint classifies a candidate assignment set against the
// hard and soft rules a committed schedule must honor, and reduces the
// violations to a single comparable fitness score.
package constraint

import "fmt"

// Severity distinguishes a violation that disqualifies a solution from one
// that only depresses its score.
type Severity int

const (
	Hard Severity = iota
	Soft
)

func (s Severity) String() string {
	if s == Hard {
		return "hard"
	}
	return "soft"
}

// Code identifies which rule a Violation failed. H-codes are hard rules,
// S-codes soft.
type Code string

const (
	CodeFacultyDoubleBook   Code = "H1"
	CodeRoomDoubleBook      Code = "H2"
	CodeSectionCollision    Code = "H3"
	CodeLabContiguity       Code = "H4"
	CodeFacultyUnavailable  Code = "H5"
	CodeCapacity            Code = "H6"
	CodeNonPreferredSlot    Code = "S1"
	CodeDailyOverload       Code = "S2"
	CodeConsecutiveDays     Code = "S3"
	CodeIntradayGap         Code = "S4"
)

// Violation is one instance of a rule failing against a specific part of
// the candidate assignment set.
type Violation struct {
	Code     Code
	Severity Severity
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s/%s] %s", v.Code, v.Severity, v.Message)
}

func newHard(code Code, format string, args ...any) Violation {
	return Violation{Code: code, Severity: Hard, Message: fmt.Sprintf(format, args...)}
}

func newSoft(code Code, format string, args ...any) Violation {
	return Violation{Code: code, Severity: Soft, Message: fmt.Sprintf(format, args...)}
}
