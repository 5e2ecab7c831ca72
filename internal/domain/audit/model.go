package audit

import "math"

// Tolerance is the largest difference still treated as agreement for
// points and money.
const Tolerance = 0.01

// Field names one audited Player Data column.
type Field string

const (
	FieldFantasyPoints Field = "Fantasy Points (incl. Misc)"
	FieldAppearances   Field = "Appearances"
	FieldGoals         Field = "Goals"
	FieldAssists       Field = "Assists"
	FieldCleanSheets   Field = "Clean Sheets"
	FieldMatchFees     Field = "Match Fees"
	FieldPayments      Field = "Payments"
	FieldBalanceDue    Field = "Balance Due"
)

// IsMoney reports whether the field holds a pound amount.
func (f Field) IsMoney() bool {
	switch f {
	case FieldMatchFees, FieldPayments, FieldBalanceDue:
		return true
	default:
		return false
	}
}

// Check compares one computed value with the figure the sheet carries.
type Check struct {
	Player     string
	Field      Field
	AppValue   float64
	SheetValue float64
	Match      bool
}

// Approx builds a check that agrees within Tolerance.
func Approx(player string, field Field, app, sheet float64) Check {
	return Check{
		Player:     player,
		Field:      field,
		AppValue:   app,
		SheetValue: sheet,
		Match:      math.Abs(app-sheet) < Tolerance,
	}
}

// Exact builds a check for whole-number counters.
func Exact(player string, field Field, app int, sheet float64) Check {
	return Check{
		Player:     player,
		Field:      field,
		AppValue:   float64(app),
		SheetValue: sheet,
		Match:      float64(app) == sheet,
	}
}

// Report is the outcome of one audit run.
type Report struct {
	Checks     []Check
	Passed     int
	Mismatches []Check
}

// Summarize counts passes and collects the mismatches in input order.
func Summarize(checks []Check) Report {
	report := Report{Checks: checks}
	for _, c := range checks {
		if c.Match {
			report.Passed++
			continue
		}
		report.Mismatches = append(report.Mismatches, c)
	}
	return report
}

// Total is the number of checks run.
func (r Report) Total() int {
	return len(r.Checks)
}

// PassRate is the share of passing checks as a percentage, 0 when nothing
// was checked.
func (r Report) PassRate() float64 {
	if len(r.Checks) == 0 {
		return 0
	}
	return math.Round(float64(r.Passed)/float64(len(r.Checks))*1000) / 10
}
