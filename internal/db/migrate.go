package db

import (
	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate creates the customers and addresses tables if they are missing
func Migrate(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Customer{},
		&model.Address{},
	}

	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedSampleData inserts the demo customers when the customers table is empty.
// It reports whether anything was written.
func SeedSampleData(gdb *gorm.DB) (bool, error) {
	var count int64
	if err := gdb.Model(&model.Customer{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count customers before seeding", err)
		return false, err
	}

	if count > 0 {
		logger.Info("Customers already present, skipping sample data", map[string]interface{}{
			"existing_count": count,
		})
		return false, nil
	}

	customers := SampleCustomers()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for i := range customers {
			if err := tx.Create(&customers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to seed sample customers", err)
		return false, err
	}

	logger.Info("Sample customers seeded", map[string]interface{}{
		"customers": len(customers),
	})
	return true, nil
}

// SampleCustomers returns the demo data set: five customers, each with one
// Mumbai and one Delhi address.
func SampleCustomers() []model.Customer {
	people := []struct{ first, last, phone string }{
		{"Rajesh", "Kumar", "9876543210"},
		{"Priya", "Nadiu", "9876543211"},
		{"Arjun", "Reddy", "9876543212"},
		{"varun", "Royal", "9876543213"},
		{"Vikram", "Babu", "9876543214"},
	}

	customers := make([]model.Customer, 0, len(people))
	for _, p := range people {
		customers = append(customers, model.Customer{
			FirstName:   p.first,
			LastName:    p.last,
			PhoneNumber: p.phone,
			Addresses: []model.Address{
				{
					AddressDetails: "123 Main Street, Apartment 4B",
					City:           "Mumbai",
					State:          "Maharashtra",
					PinCode:        "400001",
				},
				{
					AddressDetails: "456 Park Avenue, House No. 12",
					City:           "Delhi",
					State:          "Delhi",
					PinCode:        "110001",
				},
			},
		})
	}
	return customers
}
