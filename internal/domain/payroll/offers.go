package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"orbithr/internal/platform/querier"
)

type OfferInput struct {
	BasicPay         float64 `json:"basicPay"`
	HRA              float64 `json:"hra"`
	DA               float64 `json:"da"`
	SpecialAllowance float64 `json:"specialAllowance"`
	PFDeduction      float64 `json:"pfDeduction"`
	Tax              float64 `json:"tax"`
}

// DeriveOffer fixes gross and net at creation time. They are stored and never
// recomputed from the components afterwards.
func DeriveOffer(employeeID string, input OfferInput) Offer {
	gross := input.BasicPay + input.HRA + input.DA + input.SpecialAllowance
	return Offer{
		EmployeeID:       employeeID,
		BasicPay:         input.BasicPay,
		HRA:              input.HRA,
		DA:               input.DA,
		SpecialAllowance: input.SpecialAllowance,
		GrossSalary:      round2(gross),
		PFDeduction:      input.PFDeduction,
		Tax:              input.Tax,
		NetSalary:        round2(gross - input.PFDeduction - input.Tax),
	}
}

func (s *Store) CreateOffer(ctx context.Context, tenantID string, offer Offer) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO offers (tenant_id, employee_id, basic_pay, hra, da, special_allowance,
        gross_salary, pf_deduction, tax, net_salary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, tenantID, offer.EmployeeID, offer.BasicPay, offer.HRA, offer.DA, offer.SpecialAllowance,
		offer.GrossSalary, offer.PFDeduction, offer.Tax, offer.NetSalary).Scan(&id)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			return "", ErrOfferExists
		}
		return "", err
	}
	return id, nil
}

func (s *Store) OfferByEmployee(ctx context.Context, tenantID, employeeID string) (Offer, error) {
	var offer Offer
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, basic_pay, hra, da, special_allowance,
           gross_salary, pf_deduction, tax, net_salary, created_at
    FROM offers
    WHERE tenant_id = $1 AND employee_id = $2
  `, tenantID, employeeID).Scan(&offer.ID, &offer.EmployeeID, &offer.BasicPay, &offer.HRA, &offer.DA, &offer.SpecialAllowance,
		&offer.GrossSalary, &offer.PFDeduction, &offer.Tax, &offer.NetSalary, &offer.CreatedAt)
	return offer, err
}

func (s *Service) CreateOffer(ctx context.Context, tenantID, employeeID string, input OfferInput) (Offer, error) {
	offer := DeriveOffer(employeeID, input)
	id, err := s.store.CreateOffer(ctx, tenantID, offer)
	if err != nil {
		return Offer{}, err
	}
	offer.ID = id
	return offer, nil
}

func (s *Service) OfferFor(ctx context.Context, tenantID, employeeID string) (Offer, error) {
	offer, err := s.store.OfferByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrOfferNotFound
		}
		return Offer{}, err
	}
	return offer, nil
}
