package payroll

import (
	"testing"
	"time"
)

func TestComputeRowLWPDeduction(t *testing.T) {
	employee := EligibleEmployee{
		EmployeeID:   "e1",
		EmployeeName: "Asha Rao",
		Offer:        Offer{GrossSalary: 30000, PFDeduction: 1800, Tax: 2000},
	}

	row := ComputeRow(employee, 3)
	if row.LWPDeduction != 3000.00 {
		t.Fatalf("expected LWP deduction 3000.00, got %v", row.LWPDeduction)
	}
	if row.TotalDeductions != 6800.00 {
		t.Fatalf("expected total deductions 6800.00, got %v", row.TotalDeductions)
	}
	if row.NetPayable != 23200.00 {
		t.Fatalf("expected net 23200.00, got %v", row.NetPayable)
	}
}

func TestComputeRowRoundsToTwoDecimals(t *testing.T) {
	employee := EligibleEmployee{Offer: Offer{GrossSalary: 10000}}

	// 10000/30 = 333.333... per day; one unpaid day rounds to 333.33.
	row := ComputeRow(employee, 1)
	if row.LWPDeduction != 333.33 {
		t.Fatalf("expected LWP deduction 333.33, got %v", row.LWPDeduction)
	}
	if row.NetPayable != 9666.67 {
		t.Fatalf("expected net 9666.67, got %v", row.NetPayable)
	}
}

func TestComputeRowNoUnpaidDays(t *testing.T) {
	employee := EligibleEmployee{Offer: Offer{GrossSalary: 25000, PFDeduction: 1500, Tax: 1000, BasicPay: 12500}}

	row := ComputeRow(employee, 0)
	if row.LWPDeduction != 0 {
		t.Fatalf("expected zero LWP deduction, got %v", row.LWPDeduction)
	}
	if row.NetPayable != 22500.00 {
		t.Fatalf("expected net 22500.00, got %v", row.NetPayable)
	}
	if row.BasicPay != 12500 {
		t.Fatalf("expected basic pay copied through, got %v", row.BasicPay)
	}
}

func TestComputeRowIdempotent(t *testing.T) {
	employee := EligibleEmployee{
		EmployeeID:   "e1",
		EmployeeName: "Asha Rao",
		Offer:        Offer{BasicPay: 20000, HRA: 8000, DA: 4000, SpecialAllowance: 3000, GrossSalary: 35000, PFDeduction: 2100, Tax: 2500},
	}
	first := ComputeRow(employee, 2.5)
	second := ComputeRow(employee, 2.5)
	if first != second {
		t.Fatalf("rows differ: %+v vs %+v", first, second)
	}
}

func TestDeriveOfferFixesGrossAndNet(t *testing.T) {
	offer := DeriveOffer("e1", OfferInput{
		BasicPay: 20000, HRA: 8000, DA: 4000, SpecialAllowance: 3000,
		PFDeduction: 2100, Tax: 2500,
	})
	if offer.GrossSalary != 35000 {
		t.Fatalf("gross = %v, want 35000", offer.GrossSalary)
	}
	if offer.NetSalary != 30400 {
		t.Fatalf("net = %v, want 30400", offer.NetSalary)
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2, 2025)
	if !start.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", end)
	}

	start, end = MonthWindow(12, 2024)
	if !start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("december start = %v", start)
	}
	if !end.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("december end = %v", end)
	}
}
