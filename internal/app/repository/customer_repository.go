package repository

import (
	"errors"
	"strings"

	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByIDWithAddresses(id uint) (*model.Customer, error)
	PhoneTaken(phone string, excludeID uint) (bool, error)
	Update(customer *model.Customer) error
	Delete(id uint) error
	List(filter model.CustomerFilter, page model.PageRequest) ([]model.CustomerSummary, int64, error)
	ListAfter(filter model.CustomerFilter, after *model.ListCursor, limit int) ([]model.CustomerSummary, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const addressJoin = "LEFT JOIN addresses ON addresses.customer_id = customers.id"

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", map[string]interface{}{
		"phone_number": customer.PhoneNumber,
	})

	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"phone_number": customer.PhoneNumber,
		})
		return err
	}

	logger.Debug("Customer created in database", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		logFindError("Failed to find customer by ID in database", err, id)
		return nil, err
	}
	return &customer, nil
}

// FindByIDWithAddresses loads the customer with its addresses, newest first
func (r *customerRepository) FindByIDWithAddresses(id uint) (*model.Customer, error) {
	logger.Debug("Finding customer with addresses in database", map[string]interface{}{
		"customer_id": id,
	})

	var customer model.Customer
	err := r.db.
		Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("addresses.created_at DESC").Order("addresses.id DESC")
		}).
		First(&customer, id).Error
	if err != nil {
		logFindError("Failed to find customer with addresses in database", err, id)
		return nil, err
	}

	if customer.Addresses == nil {
		customer.Addresses = []model.Address{}
	}

	logger.Debug("Customer with addresses found in database", map[string]interface{}{
		"customer_id":   customer.ID,
		"address_count": len(customer.Addresses),
	})
	return &customer, nil
}

// PhoneTaken reports whether another customer (id != excludeID) owns phone.
// Pass 0 as excludeID on create.
func (r *customerRepository) PhoneTaken(phone string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).
		Where("phone_number = ? AND id <> ?", phone, excludeID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check phone number in database", err, map[string]interface{}{
			"exclude_id": excludeID,
		})
		return false, err
	}
	return count > 0, nil
}

// Update writes the editable columns only; created_at is never touched
func (r *customerRepository) Update(customer *model.Customer) error {
	logger.Debug("Updating customer in database", map[string]interface{}{
		"customer_id": customer.ID,
	})

	result := r.db.Model(&model.Customer{ID: customer.ID}).
		Select("first_name", "last_name", "phone_number").
		Updates(map[string]interface{}{
			"first_name":   customer.FirstName,
			"last_name":    customer.LastName,
			"phone_number": customer.PhoneNumber,
		})
	if result.Error != nil {
		logger.Error("Failed to update customer in database", result.Error, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Customer updated in database", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return nil
}

// Delete removes the customer and its addresses in one transaction. The
// addresses go first so the result is the same with or without ON DELETE
// CASCADE support in the store.
func (r *customerRepository) Delete(id uint) error {
	logger.Debug("Deleting customer from database", map[string]interface{}{
		"customer_id": id,
	})

	var removedAddresses int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		addrResult := tx.Where("customer_id = ?", id).Delete(&model.Address{})
		if addrResult.Error != nil {
			return addrResult.Error
		}
		removedAddresses = addrResult.RowsAffected

		result := tx.Delete(&model.Customer{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to delete customer from database", err, map[string]interface{}{
				"customer_id": id,
			})
		}
		return err
	}

	logger.Debug("Customer deleted from database", map[string]interface{}{
		"customer_id":       id,
		"addresses_deleted": removedAddresses,
	})
	return nil
}

// List returns one page of customers matching filter, newest first, each with
// the number of addresses it owns, plus the total number of matching customers.
func (r *customerRepository) List(filter model.CustomerFilter, page model.PageRequest) ([]model.CustomerSummary, int64, error) {
	logger.Debug("Listing customers from database", map[string]interface{}{
		"search":    filter.Search,
		"city":      filter.City,
		"page":      page.Page,
		"page_size": page.PageSize,
	})

	var total int64
	countQuery := applyCustomerFilter(r.db.Model(&model.Customer{}).Joins(addressJoin), filter)
	if err := countQuery.Distinct("customers.id").Count(&total).Error; err != nil {
		logger.Error("Failed to count customers in database", err)
		return nil, 0, err
	}

	rows := []model.CustomerSummary{}
	err := r.summaryQuery(filter).
		Limit(page.PageSize).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to list customers from database", err)
		return nil, 0, err
	}

	logger.Debug("Customers listed from database", map[string]interface{}{
		"count": len(rows),
		"total": total,
	})
	return rows, total, nil
}

// ListAfter returns up to limit customers matching filter that sort strictly
// after the cursor in listing order. A nil cursor starts from the newest.
// Rows inserted or deleted between calls cannot shift later batches.
func (r *customerRepository) ListAfter(filter model.CustomerFilter, after *model.ListCursor, limit int) ([]model.CustomerSummary, error) {
	query := r.summaryQuery(filter)
	if after != nil {
		query = query.Where(
			"(customers.created_at < ? OR (customers.created_at = ? AND customers.id < ?))",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}

	rows := []model.CustomerSummary{}
	if err := query.Limit(limit).Scan(&rows).Error; err != nil {
		logger.Error("Failed to list customers after cursor from database", err, map[string]interface{}{
			"search": filter.Search,
			"city":   filter.City,
		})
		return nil, err
	}
	return rows, nil
}

// summaryQuery selects one row per customer matching filter with its address
// count, newest first
func (r *customerRepository) summaryQuery(filter model.CustomerFilter) *gorm.DB {
	return applyCustomerFilter(r.db.Model(&model.Customer{}).Joins(addressJoin), filter).
		Select("customers.id, customers.first_name, customers.last_name, customers.phone_number, customers.created_at, COUNT(addresses.id) AS address_count").
		Group("customers.id, customers.first_name, customers.last_name, customers.phone_number, customers.created_at").
		Order("customers.created_at DESC").
		Order("customers.id DESC")
}

// applyCustomerFilter ANDs the active predicates onto tx. Values are always
// bound, never spliced into the SQL text.
//
// The city predicate is an EXISTS so that address_count keeps counting every
// address of a matching customer, not only the ones in that city. A customer
// without addresses can never satisfy it.
func applyCustomerFilter(tx *gorm.DB, filter model.CustomerFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		tx = tx.Where(
			"(LOWER(customers.first_name) LIKE ? ESCAPE '\\' OR LOWER(customers.last_name) LIKE ? ESCAPE '\\' OR customers.phone_number LIKE ? ESCAPE '\\')",
			pattern, pattern, pattern,
		)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		tx = tx.Where("EXISTS (SELECT 1 FROM addresses city_match WHERE city_match.customer_id = customers.id AND city_match.city = ?)", city)
	}
	return tx
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func logFindError(msg string, err error, id uint) {
	fields := map[string]interface{}{"id": id}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
