// Package period derives billing period boundaries in a fixed civil
// offset of UTC+5:30, so month-boundary semantics do not drift with the
// host timezone or tzdata updates.
package period

import (
	"fmt"
	"time"
)

// civilOffset is the fixed +05:30 offset applied to UTC instants before
// extracting calendar fields. Deliberately not a tzdata zone.
var civilOffset = time.FixedZone("IST", 5*3600+30*60)

// Terms carries everything the generator needs to write an invoice for
// one order in one billing period.
type Terms struct {
	// Period is the target billing month, "YYYY-MM".
	Period string
	// FromDate is midnight (civil) of the order's completion day.
	FromDate time.Time
	// ToDate is the same day-of-month one calendar month after FromDate.
	// Calendar overflow (completion on the 29th-31st) normalizes forward
	// the way time.AddDate does; see the package tests.
	ToDate time.Time
	// DueDate is the run instant plus the payment window.
	DueDate time.Time
	// MonthSuffix is the two-digit month of the civil run date, appended
	// to the order number to form the invoice number.
	MonthSuffix string
}

// TargetPeriod returns the calendar month immediately preceding runAt in
// civil time, as "YYYY-MM" plus its [start, end) instants.
func TargetPeriod(runAt time.Time) (string, time.Time, time.Time) {
	civil := runAt.In(civilOffset)
	monthStart := time.Date(civil.Year(), civil.Month(), 1, 0, 0, 0, 0, civilOffset)
	start := monthStart.AddDate(0, -1, 0)
	return fmt.Sprintf("%04d-%02d", start.Year(), start.Month()), start, monthStart
}

// Compute derives the invoice terms for an order completed at
// completedAt, as of a generation run at runAt. dueInDays is the payment
// window in calendar days.
func Compute(runAt, completedAt time.Time, dueInDays int) Terms {
	periodStr, _, _ := TargetPeriod(runAt)

	completedCivil := completedAt.In(civilOffset)
	fromDate := time.Date(
		completedCivil.Year(), completedCivil.Month(), completedCivil.Day(),
		0, 0, 0, 0, civilOffset,
	)

	runCivil := runAt.In(civilOffset)
	return Terms{
		Period:      periodStr,
		FromDate:    fromDate,
		ToDate:      fromDate.AddDate(0, 1, 0),
		DueDate:     runAt.AddDate(0, 0, dueInDays),
		MonthSuffix: fmt.Sprintf("%02d", runCivil.Month()),
	}
}

// InvoiceNumber builds the scheduled invoice number for an order. The
// suffix carries only the month, not the year, matching the numbering
// already issued to customers.
func InvoiceNumber(orderNumber, monthSuffix string) string {
	return orderNumber + "-" + monthSuffix
}
