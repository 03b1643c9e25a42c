package payroll

import (
	"math"
	"time"
)

// Salary rates use a fixed 30-day divisor regardless of the calendar month.
const daysPerMonth = 30

// MonthWindow returns the first and last day of the month at UTC midnight.
func MonthWindow(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// ComputeRow derives one payroll preview row from a stored offer and the
// month's unpaid-leave day count. Pure function: identical inputs always
// produce the identical row.
func ComputeRow(employee EligibleEmployee, lwpDays float64) PreviewRow {
	offer := employee.Offer
	perDaySalary := offer.GrossSalary / daysPerMonth
	lwpDeduction := round2(perDaySalary * lwpDays)
	totalDeductions := offer.PFDeduction + offer.Tax + lwpDeduction
	return PreviewRow{
		EmployeeID:       employee.EmployeeID,
		EmployeeName:     employee.EmployeeName,
		BasicPay:         offer.BasicPay,
		HRA:              offer.HRA,
		DA:               offer.DA,
		SpecialAllowance: offer.SpecialAllowance,
		GrossSalary:      offer.GrossSalary,
		LWPDays:          lwpDays,
		LWPDeduction:     lwpDeduction,
		PFDeduction:      offer.PFDeduction,
		Tax:              offer.Tax,
		TotalDeductions:  round2(totalDeductions),
		NetPayable:       round2(offer.GrossSalary - totalDeductions),
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
