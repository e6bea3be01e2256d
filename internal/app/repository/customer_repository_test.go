package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/internal/db"
	apperrors "github.com/ikkim/customer-records-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCustomerTest(t *testing.T) (*gorm.DB, CustomerRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCustomerRepository(testDB)
	return testDB, repo
}

func seedSample(t *testing.T, testDB *gorm.DB) {
	t.Helper()
	seeded, err := db.SeedSampleData(testDB)
	require.NoError(t, err)
	require.True(t, seeded)
}

func TestCustomerRepository_Create(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customer := &model.Customer{FirstName: "Rajesh", LastName: "Kumar", PhoneNumber: "9876543210"}
	require.NoError(t, repo.Create(customer))
	assert.NotZero(t, customer.ID)
	assert.False(t, customer.CreatedAt.IsZero())

	dup := &model.Customer{FirstName: "Other", LastName: "Person", PhoneNumber: "9876543210"}
	err := repo.Create(dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsUniqueViolation(err))
}

func TestCustomerRepository_FindByIDWithAddresses(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customer := &model.Customer{FirstName: "Priya", LastName: "Nadiu", PhoneNumber: "9876543211"}
	require.NoError(t, repo.Create(customer))

	found, err := repo.FindByIDWithAddresses(customer.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.Addresses)
	assert.Empty(t, found.Addresses)

	first := &model.Address{CustomerID: customer.ID, AddressDetails: "A", City: "Mumbai", State: "Maharashtra", PinCode: "400001"}
	second := &model.Address{CustomerID: customer.ID, AddressDetails: "B", City: "Delhi", State: "Delhi", PinCode: "110001"}
	require.NoError(t, testDB.Create(first).Error)
	require.NoError(t, testDB.Create(second).Error)

	found, err = repo.FindByIDWithAddresses(customer.ID)
	require.NoError(t, err)
	require.Len(t, found.Addresses, 2)
	assert.Equal(t, second.ID, found.Addresses[0].ID, "newest address first")

	_, err = repo.FindByIDWithAddresses(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomerRepository_PhoneTaken(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customer := &model.Customer{FirstName: "Arjun", LastName: "Reddy", PhoneNumber: "9876543212"}
	require.NoError(t, repo.Create(customer))

	tests := []struct {
		name      string
		phone     string
		excludeID uint
		want      bool
	}{
		{"taken on create", "9876543212", 0, true},
		{"own number on update", "9876543212", customer.ID, false},
		{"taken by someone else on update", "9876543212", customer.ID + 1, true},
		{"free", "9000000000", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken, err := repo.PhoneTaken(tt.phone, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, taken)
		})
	}
}

func TestCustomerRepository_Update(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customer := &model.Customer{FirstName: "Vikram", LastName: "Babu", PhoneNumber: "9876543214"}
	require.NoError(t, repo.Create(customer))
	before, err := repo.FindByID(customer.ID)
	require.NoError(t, err)

	err = repo.Update(&model.Customer{ID: customer.ID, FirstName: "Vik", LastName: "Babu", PhoneNumber: "9876543299"})
	require.NoError(t, err)

	updated, err := repo.FindByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vik", updated.FirstName)
	assert.Equal(t, "9876543299", updated.PhoneNumber)
	assert.True(t, before.CreatedAt.Equal(updated.CreatedAt))

	err = repo.Update(&model.Customer{ID: 9999, FirstName: "X", LastName: "Y", PhoneNumber: "9000000000"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomerRepository_DeleteCascades(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)
	seedSample(t, testDB)

	var victim model.Customer
	require.NoError(t, testDB.Where("phone_number = ?", "9876543210").First(&victim).Error)

	require.NoError(t, repo.Delete(victim.ID))

	var remaining int64
	require.NoError(t, testDB.Model(&model.Address{}).Where("customer_id = ?", victim.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	require.NoError(t, testDB.Model(&model.Address{}).Count(&remaining).Error)
	assert.Equal(t, int64(8), remaining, "other customers keep their addresses")

	_, err := repo.FindByID(victim.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(victim.ID), gorm.ErrRecordNotFound)
}

func TestCustomerRepository_ListNoFilter(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)
	seedSample(t, testDB)

	rows, total, err := repo.List(model.CustomerFilter{}, model.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 5)

	// seeded in order, so the last one inserted comes first
	assert.Equal(t, "Vikram", rows[0].FirstName)
	assert.Equal(t, "Rajesh", rows[4].FirstName)
	for _, r := range rows {
		assert.Equal(t, int64(2), r.AddressCount)
	}
}

func TestCustomerRepository_ListCityFilter(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)
	seedSample(t, testDB)

	lonely := &model.Customer{FirstName: "No", LastName: "Address", PhoneNumber: "9000000001"}
	require.NoError(t, repo.Create(lonely))

	rows, total, err := repo.List(model.CustomerFilter{City: "Mumbai"}, model.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, rows, 5)
	for _, r := range rows {
		assert.NotEqual(t, lonely.ID, r.ID)
		assert.Equal(t, int64(2), r.AddressCount, "count covers every address, not only Mumbai ones")
	}

	rows, total, err = repo.List(model.CustomerFilter{City: "Chennai"}, model.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
}

func TestCustomerRepository_ListCountsDistinctCustomers(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	customer := &model.Customer{FirstName: "Many", LastName: "Homes", PhoneNumber: "9000000002"}
	require.NoError(t, repo.Create(customer))
	for i := 0; i < 3; i++ {
		require.NoError(t, testDB.Create(&model.Address{
			CustomerID:     customer.ID,
			AddressDetails: fmt.Sprintf("Flat %d", i),
			City:           "Pune",
			State:          "Maharashtra",
			PinCode:        "411001",
		}).Error)
	}

	rows, total, err := repo.List(model.CustomerFilter{City: "Pune", Search: "many"}, model.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].AddressCount)
}

func TestCustomerRepository_ListSearch(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)
	seedSample(t, testDB)

	tests := []struct {
		name   string
		search string
		want   int64
	}{
		{"first name any case", "rAjEsH", 1},
		{"last name substring", "edd", 1},
		{"phone substring", "4321", 5},
		{"phone suffix", "543213", 1},
		{"wildcard is literal", "%", 0},
		{"underscore is literal", "_", 0},
		{"no match", "zzz", 0},
		{"whitespace only means no filter", "   ", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := repo.List(model.CustomerFilter{Search: tt.search}, model.PageRequest{Page: 1, PageSize: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, rows, int(tt.want))
		})
	}
}

func TestCustomerRepository_ListPaging(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)
	seedSample(t, testDB)

	page1, total, err := repo.List(model.CustomerFilter{}, model.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)

	page3, _, err := repo.List(model.CustomerFilter{}, model.PageRequest{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "Rajesh", page3[0].FirstName)

	beyond, total, err := repo.List(model.CustomerFilter{}, model.PageRequest{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, beyond)
}

func TestCustomerRepository_ListAfter(t *testing.T) {
	testDB, repo := setupCustomerTest(t)
	defer db.CleanupTestDB(testDB)

	// three customers share a timestamp so the id decides their order
	same := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	stamps := []time.Time{same.Add(-time.Hour), same, same, same, same.Add(time.Hour)}
	ids := make([]uint, len(stamps))
	for i, ts := range stamps {
		customer := &model.Customer{
			FirstName:   "Walk",
			LastName:    fmt.Sprintf("Customer%d", i),
			PhoneNumber: fmt.Sprintf("90000000%02d", i),
			CreatedAt:   ts,
		}
		require.NoError(t, repo.Create(customer))
		ids[i] = customer.ID
	}

	var walked []uint
	var cursor *model.ListCursor
	for {
		rows, err := repo.ListAfter(model.CustomerFilter{}, cursor, 2)
		require.NoError(t, err)
		for _, r := range rows {
			walked = append(walked, r.ID)
		}
		if len(rows) < 2 {
			break
		}
		cursor = rows[len(rows)-1].Cursor()
	}

	assert.Equal(t, []uint{ids[4], ids[3], ids[2], ids[1], ids[0]}, walked)

	rows, err := repo.ListAfter(model.CustomerFilter{Search: "customer3"}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ids[3], rows[0].ID)
}
