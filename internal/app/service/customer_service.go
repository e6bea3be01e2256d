package service

import (
	"errors"

	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/internal/app/repository"
	apperrors "github.com/ikkim/customer-records-backend/internal/errors"
	"github.com/ikkim/customer-records-backend/internal/metrics"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrPhoneNumberExists = errors.New("phone number already exists")
)

type CustomerService interface {
	ListCustomers(filter model.CustomerFilter, page model.PageRequest) ([]model.CustomerSummary, model.Pagination, error)
	ListAllCustomers(filter model.CustomerFilter) ([]model.CustomerSummary, error)
	GetCustomer(id uint) (*model.Customer, error)
	CreateCustomer(input CustomerInput) (*model.Customer, error)
	ImportCustomer(input CustomerInput, addresses []AddressInput) (*model.Customer, error)
	UpdateCustomer(id uint, input CustomerInput) (*model.Customer, error)
	DeleteCustomer(id uint) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
	}
}

func (s *customerService) ListCustomers(filter model.CustomerFilter, page model.PageRequest) ([]model.CustomerSummary, model.Pagination, error) {
	page = page.Normalize()

	rows, total, err := s.customerRepo.List(filter, page)
	if err != nil {
		logger.Error("Failed to list customers", err, map[string]interface{}{
			"search": filter.Search,
			"city":   filter.City,
			"page":   page.Page,
		})
		return nil, model.Pagination{}, err
	}

	return rows, model.NewPagination(page, total), nil
}

// ListAllCustomers collects every customer matching filter in listing order.
// It walks by cursor, so writes made meanwhile never skip or repeat a row.
func (s *customerService) ListAllCustomers(filter model.CustomerFilter) ([]model.CustomerSummary, error) {
	all := []model.CustomerSummary{}
	var cursor *model.ListCursor

	for {
		rows, err := s.customerRepo.ListAfter(filter, cursor, model.MaxPageSize)
		if err != nil {
			logger.Error("Failed to collect customer listing", err, map[string]interface{}{
				"search":    filter.Search,
				"city":      filter.City,
				"collected": len(all),
			})
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < model.MaxPageSize {
			break
		}
		cursor = rows[len(rows)-1].Cursor()
	}

	logger.Info("Full customer listing collected", map[string]interface{}{
		"search": filter.Search,
		"city":   filter.City,
		"count":  len(all),
	})
	return all, nil
}

func (s *customerService) GetCustomer(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByIDWithAddresses(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Customer not found", map[string]interface{}{
				"customer_id": id,
			})
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return customer, nil
}

func (s *customerService) CreateCustomer(input CustomerInput) (*model.Customer, error) {
	return s.ImportCustomer(input, nil)
}

// ImportCustomer creates a customer together with its addresses in one
// insert. Nothing is written unless every field is valid.
func (s *customerService) ImportCustomer(input CustomerInput, addresses []AddressInput) (*model.Customer, error) {
	input, err := input.Validate()
	if err != nil {
		logger.Warn("Invalid customer input", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	customer := &model.Customer{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
	}
	for i, a := range addresses {
		a, err := a.Validate()
		if err != nil {
			logger.Warn("Invalid address input on import", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			return nil, err
		}
		customer.Addresses = append(customer.Addresses, model.Address{
			AddressDetails: a.AddressDetails,
			City:           a.City,
			State:          a.State,
			PinCode:        a.PinCode,
		})
	}

	logger.Info("Creating customer", map[string]interface{}{
		"phone_number": customer.PhoneNumber,
		"addresses":    len(customer.Addresses),
	})

	taken, err := s.customerRepo.PhoneTaken(customer.PhoneNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Warn("Phone number already exists", map[string]interface{}{
			"phone_number": customer.PhoneNumber,
		})
		return nil, ErrPhoneNumberExists
	}

	if err := s.customerRepo.Create(customer); err != nil {
		// lost a race with a concurrent create; the unique index decided
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrPhoneNumberExists
		}
		return nil, err
	}

	metrics.RecordWrite("customer", "create")
	logger.Info("Customer created successfully", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *customerService) UpdateCustomer(id uint, input CustomerInput) (*model.Customer, error) {
	input, err := input.Validate()
	if err != nil {
		logger.Warn("Invalid customer input", map[string]interface{}{
			"customer_id": id,
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Info("Updating customer", map[string]interface{}{
		"customer_id": id,
	})

	if _, err := s.findCustomer(id); err != nil {
		return nil, err
	}

	taken, err := s.customerRepo.PhoneTaken(input.PhoneNumber, id)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Warn("Phone number belongs to another customer", map[string]interface{}{
			"customer_id":  id,
			"phone_number": input.PhoneNumber,
		})
		return nil, ErrPhoneNumberExists
	}

	err = s.customerRepo.Update(&model.Customer{
		ID:          id,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrCustomerNotFound
	case apperrors.IsUniqueViolation(err):
		return nil, ErrPhoneNumberExists
	case err != nil:
		return nil, err
	}

	updated, err := s.findCustomer(id)
	if err != nil {
		return nil, err
	}

	metrics.RecordWrite("customer", "update")
	logger.Info("Customer updated successfully", map[string]interface{}{
		"customer_id": id,
	})
	return updated, nil
}

// DeleteCustomer removes the customer and every address it owns
func (s *customerService) DeleteCustomer(id uint) error {
	logger.Info("Deleting customer", map[string]interface{}{
		"customer_id": id,
	})

	if err := s.customerRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Customer not found for deletion", map[string]interface{}{
				"customer_id": id,
			})
			return ErrCustomerNotFound
		}
		logger.Error("Failed to delete customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return err
	}

	metrics.RecordWrite("customer", "delete")
	logger.Info("Customer deleted successfully", map[string]interface{}{
		"customer_id": id,
	})
	return nil
}

func (s *customerService) findCustomer(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Customer not found", map[string]interface{}{
				"customer_id": id,
			})
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return customer, nil
}
