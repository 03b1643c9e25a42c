package core

import (
	"context"

	"orbithr/internal/domain/auth"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetEmployee(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, tenantID, employeeID)
}

func (s *Service) GetEmployeeByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	return s.store.GetEmployeeByUserID(ctx, tenantID, userID)
}

func (s *Service) ListEmployees(ctx context.Context, tenantID string, filter ListFilter) ([]Employee, error) {
	return s.store.ListEmployees(ctx, tenantID, filter)
}

func (s *Service) CreateEmployee(ctx context.Context, tenantID string, emp Employee) (string, error) {
	if err := validateEmployee(emp); err != nil {
		return "", err
	}
	if emp.Status == "" {
		emp.Status = EmployeeStatusActive
	}
	return s.store.CreateEmployee(ctx, tenantID, emp)
}

func (s *Service) UpdateEmployee(ctx context.Context, tenantID, employeeID string, emp Employee) error {
	if err := validateEmployee(emp); err != nil {
		return err
	}
	return s.store.UpdateEmployee(ctx, tenantID, employeeID, emp)
}

func (s *Service) DeactivateEmployee(ctx context.Context, tenantID, employeeID string) error {
	return s.store.DeactivateEmployee(ctx, tenantID, employeeID)
}

func (s *Service) Onboard(ctx context.Context, tenantID string, input OnboardInput) (string, string, error) {
	if err := validateEmployee(input.Employee); err != nil {
		return "", "", err
	}
	if input.Role == "" {
		input.Role = auth.RoleEmployee
	}
	return s.store.OnboardEmployee(ctx, tenantID, input)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, tenantID, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, tenantID, userID)
}

func (s *Service) UpcomingBirthdays(ctx context.Context, tenantID string, days int) ([]Birthday, error) {
	return s.store.UpcomingBirthdays(ctx, tenantID, days)
}

func validateEmployee(emp Employee) error {
	if emp.FirstName == "" || emp.LastName == "" || emp.Email == "" {
		return ErrMissingFields
	}
	return nil
}
