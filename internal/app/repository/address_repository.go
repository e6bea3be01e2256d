package repository

import (
	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(address *model.Address) error
	FindByCustomerID(customerID uint) ([]model.Address, error)
	FindByID(id uint) (*model.Address, error)
	Update(address *model.Address) error
	Delete(id uint) error
	DistinctCities() ([]string, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"customer_id": address.CustomerID,
		"city":        address.City,
	})

	if err := r.db.Create(address).Error; err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"customer_id": address.CustomerID,
			"city":        address.City,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id":  address.ID,
		"customer_id": address.CustomerID,
	})
	return nil
}

func (r *addressRepository) FindByCustomerID(customerID uint) ([]model.Address, error) {
	logger.Debug("Finding addresses by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
	})

	addresses := []model.Address{}
	err := r.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
		"count":       len(addresses),
	})
	return addresses, nil
}

func (r *addressRepository) FindByID(id uint) (*model.Address, error) {
	var address model.Address
	if err := r.db.First(&address, id).Error; err != nil {
		logFindError("Failed to find address by ID in database", err, id)
		return nil, err
	}
	return &address, nil
}

// Update rewrites the editable columns; customer_id and created_at stay put
func (r *addressRepository) Update(address *model.Address) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": address.ID,
	})

	result := r.db.Model(&model.Address{ID: address.ID}).
		Select("address_details", "city", "state", "pin_code").
		Updates(map[string]interface{}{
			"address_details": address.AddressDetails,
			"city":            address.City,
			"state":           address.State,
			"pin_code":        address.PinCode,
		})
	if result.Error != nil {
		logger.Error("Failed to update address in database", result.Error, map[string]interface{}{
			"address_id": address.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Address updated in database", map[string]interface{}{
		"address_id": address.ID,
	})
	return nil
}

func (r *addressRepository) Delete(id uint) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": id,
	})

	result := r.db.Delete(&model.Address{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete address from database", result.Error, map[string]interface{}{
			"address_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Address deleted from database", map[string]interface{}{
		"address_id": id,
	})
	return nil
}

// DistinctCities returns every city used by at least one address, sorted
func (r *addressRepository) DistinctCities() ([]string, error) {
	cities := []string{}
	err := r.db.Model(&model.Address{}).
		Distinct().
		Order("city ASC").
		Pluck("city", &cities).Error
	if err != nil {
		logger.Error("Failed to list distinct cities from database", err)
		return nil, err
	}

	logger.Debug("Distinct cities listed from database", map[string]interface{}{
		"count": len(cities),
	})
	return cities, nil
}
