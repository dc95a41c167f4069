package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name  string
	DNI   *string
	Email *string
	Phone *string
}

// CreateCustomer creates a new customer. The DNI, when given, must be unique.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}

	dni := trimmed(input.DNI)
	if dni != nil {
		existing, err := s.customerRepo.GetByDNI(ctx, *dni)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A customer with this DNI already exists")
		}
	}

	customer := &entity.Customer{
		Name:  name,
		DNI:   dni,
		Email: trimmed(input.Email),
		Phone: trimmed(input.Phone),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// GetCustomerByDNI retrieves a customer by national ID
func (s *CustomerService) GetCustomerByDNI(ctx context.Context, dni string) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByDNI(ctx, strings.TrimSpace(dni))
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search on name, DNI or phone
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID    uuid.UUID
	Name  *string
	DNI   *string
	Email *string
	Phone *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "is required")
		}
		customer.Name = name
	}
	if dni := trimmed(input.DNI); dni != nil {
		existing, err := s.customerRepo.GetByDNI(ctx, *dni)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != customer.ID {
			return nil, apperror.NewConflictError("A customer with this DNI already exists")
		}
		customer.DNI = dni
	}
	if input.Email != nil {
		customer.Email = trimmed(input.Email)
	}
	if input.Phone != nil {
		customer.Phone = trimmed(input.Phone)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer. Past sales keep the name snapshot.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// SupplierService handles supplier-related operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	Name        string
	RUC         *string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "is required")
	}

	supplier := &entity.Supplier{
		Name:        name,
		RUC:         trimmed(input.RUC),
		ContactName: trimmed(input.ContactName),
		Email:       trimmed(input.Email),
		Phone:       trimmed(input.Phone),
		Address:     trimmed(input.Address),
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplierInput represents the update supplier input
type UpdateSupplierInput struct {
	ID          uuid.UUID
	Name        *string
	RUC         *string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "is required")
		}
		supplier.Name = name
	}
	if input.RUC != nil {
		supplier.RUC = trimmed(input.RUC)
	}
	if input.ContactName != nil {
		supplier.ContactName = trimmed(input.ContactName)
	}
	if input.Email != nil {
		supplier.Email = trimmed(input.Email)
	}
	if input.Phone != nil {
		supplier.Phone = trimmed(input.Phone)
	}
	if input.Address != nil {
		supplier.Address = trimmed(input.Address)
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// DeleteSupplier deletes a supplier. Past purchases keep the supplier name.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}
	return s.supplierRepo.Delete(ctx, id)
}

// trimmed returns nil for nil or blank strings
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
