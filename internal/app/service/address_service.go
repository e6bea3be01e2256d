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

var ErrAddressNotFound = errors.New("address not found")

type AddressService interface {
	ListAddresses(customerID uint) ([]model.Address, error)
	GetAddress(addressID uint) (*model.Address, error)
	AddAddress(customerID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(addressID uint) error
	ListCities() ([]string, error)
}

type addressService struct {
	addressRepo  repository.AddressRepository
	customerRepo repository.CustomerRepository
}

func NewAddressService(addressRepo repository.AddressRepository, customerRepo repository.CustomerRepository) AddressService {
	return &addressService{
		addressRepo:  addressRepo,
		customerRepo: customerRepo,
	}
}

func (s *addressService) ListAddresses(customerID uint) ([]model.Address, error) {
	if err := s.ensureCustomer(customerID); err != nil {
		return nil, err
	}

	addresses, err := s.addressRepo.FindByCustomerID(customerID)
	if err != nil {
		logger.Error("Failed to fetch customer addresses", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}
	return addresses, nil
}

func (s *addressService) GetAddress(addressID uint) (*model.Address, error) {
	return s.findAddress(addressID)
}

func (s *addressService) AddAddress(customerID uint, input AddressInput) (*model.Address, error) {
	input, err := input.Validate()
	if err != nil {
		logger.Warn("Invalid address input", map[string]interface{}{
			"customer_id": customerID,
			"error":       err.Error(),
		})
		return nil, err
	}

	logger.Info("Adding address", map[string]interface{}{
		"customer_id": customerID,
		"city":        input.City,
	})

	if err := s.ensureCustomer(customerID); err != nil {
		return nil, err
	}

	address := &model.Address{
		CustomerID:     customerID,
		AddressDetails: input.AddressDetails,
		City:           input.City,
		State:          input.State,
		PinCode:        input.PinCode,
	}
	if err := s.addressRepo.Create(address); err != nil {
		// customer deleted between the check and the insert
		if apperrors.IsForeignKeyViolation(err) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	metrics.RecordWrite("address", "create")
	logger.Info("Address added successfully", map[string]interface{}{
		"address_id":  address.ID,
		"customer_id": customerID,
	})
	return address, nil
}

func (s *addressService) UpdateAddress(addressID uint, input AddressInput) (*model.Address, error) {
	input, err := input.Validate()
	if err != nil {
		logger.Warn("Invalid address input", map[string]interface{}{
			"address_id": addressID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Updating address", map[string]interface{}{
		"address_id": addressID,
	})

	address, err := s.findAddress(addressID)
	if err != nil {
		return nil, err
	}

	address.AddressDetails = input.AddressDetails
	address.City = input.City
	address.State = input.State
	address.PinCode = input.PinCode

	if err := s.addressRepo.Update(address); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	metrics.RecordWrite("address", "update")
	logger.Info("Address updated successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return address, nil
}

func (s *addressService) DeleteAddress(addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"address_id": addressID,
	})

	if err := s.addressRepo.Delete(addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found for deletion", map[string]interface{}{
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return err
	}

	metrics.RecordWrite("address", "delete")
	logger.Info("Address deleted successfully", map[string]interface{}{
		"address_id": addressID,
	})
	return nil
}

// ListCities reads the distinct cities straight from the store on every call
func (s *addressService) ListCities() ([]string, error) {
	cities, err := s.addressRepo.DistinctCities()
	if err != nil {
		logger.Error("Failed to list cities", err)
		return nil, err
	}
	return cities, nil
}

func (s *addressService) ensureCustomer(customerID uint) error {
	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Customer not found", map[string]interface{}{
				"customer_id": customerID,
			})
			return ErrCustomerNotFound
		}
		logger.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return err
	}
	return nil
}

func (s *addressService) findAddress(addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Address not found", map[string]interface{}{
				"address_id": addressID,
			})
			return nil, ErrAddressNotFound
		}
		logger.Error("Failed to fetch address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}
	return address, nil
}
