package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/customer-records-backend/internal/app/repository"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	"github.com/ikkim/customer-records-backend/internal/db"
	"github.com/ikkim/customer-records-backend/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	customerRepo := repository.NewCustomerRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	customerController := NewCustomerController(service.NewCustomerService(customerRepo))
	addressController := NewAddressController(service.NewAddressService(addressRepo, customerRepo))

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/customers", customerController.ListCustomers)
	router.GET("/customers/export", customerController.ExportCustomers)
	router.POST("/customers", customerController.CreateCustomer)
	router.GET("/customers/:id", customerController.GetCustomer)
	router.PUT("/customers/:id", customerController.UpdateCustomer)
	router.DELETE("/customers/:id", customerController.DeleteCustomer)
	router.GET("/customers/:id/addresses", addressController.ListAddresses)
	router.POST("/customers/:id/addresses", addressController.AddAddress)
	router.GET("/addresses/:addressId", addressController.GetAddress)
	router.PUT("/addresses/:addressId", addressController.UpdateAddress)
	router.DELETE("/addresses/:addressId", addressController.DeleteAddress)
	router.GET("/cities", addressController.ListCities)

	return router, testDB
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func createCustomer(t *testing.T, router *gin.Engine, phone string) uint {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/customers", CustomerRequest{
		FirstName:   "Rajesh",
		LastName:    "Kumar",
		PhoneNumber: phone,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestCustomerController_CreateCustomer(t *testing.T) {
	router, _ := setupControllerTest(t)

	t.Run("created", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/customers", CustomerRequest{
			FirstName:   "Priya",
			LastName:    "Nadiu",
			PhoneNumber: "9876543211",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		response := decode(t, w)
		assert.Equal(t, "Customer created successfully", response["message"])
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Priya", data["first_name"])
		assert.NotZero(t, data["id"])
		assert.NotEmpty(t, data["created_at"])
	})

	t.Run("duplicate phone", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/customers", CustomerRequest{
			FirstName:   "Other",
			LastName:    "Person",
			PhoneNumber: "9876543211",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CUSTOMER_PHONE_EXISTS", decode(t, w)["error"])
	})

	t.Run("invalid fields", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/customers", CustomerRequest{
			FirstName:   "",
			LastName:    "Kumar",
			PhoneNumber: "12345",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := decode(t, w)
		assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
		fields := response["fields"].(map[string]interface{})
		assert.Contains(t, fields, "first_name")
		assert.Contains(t, fields, "phone_number")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/customers", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_INVALID_INPUT", decode(t, w)["error"])
	})
}

func TestCustomerController_GetCustomer(t *testing.T) {
	router, _ := setupControllerTest(t)
	id := createCustomer(t, router, "9876543210")

	w := doRequest(router, http.MethodGet, "/customers/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "9876543210", data["phone_number"])

	w = doRequest(router, http.MethodGet, "/customers/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", decode(t, w)["error"])

	for _, bad := range []string{"abc", "0", "-1"} {
		w = doRequest(router, http.MethodGet, "/customers/"+bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Equal(t, "VALIDATION_INVALID_ID", decode(t, w)["error"])
	}
}

func TestCustomerController_UpdateCustomer(t *testing.T) {
	router, _ := setupControllerTest(t)
	first := createCustomer(t, router, "9876543210")
	createCustomer(t, router, "9876543211")

	w := doRequest(router, http.MethodPut, "/customers/"+itoa(first), CustomerRequest{
		FirstName:   "Raj",
		LastName:    "Kumar",
		PhoneNumber: "9876543210",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, "Customer updated successfully", response["message"])
	assert.Equal(t, "Raj", response["data"].(map[string]interface{})["first_name"])

	w = doRequest(router, http.MethodPut, "/customers/"+itoa(first), CustomerRequest{
		FirstName:   "Raj",
		LastName:    "Kumar",
		PhoneNumber: "9876543211",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPut, "/customers/9999", CustomerRequest{
		FirstName:   "Raj",
		LastName:    "Kumar",
		PhoneNumber: "9000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerController_DeleteCustomer(t *testing.T) {
	router, _ := setupControllerTest(t)
	id := createCustomer(t, router, "9876543210")

	w := doRequest(router, http.MethodDelete, "/customers/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Customer deleted successfully", decode(t, w)["message"])

	w = doRequest(router, http.MethodDelete, "/customers/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerController_ListCustomers(t *testing.T) {
	router, testDB := setupControllerTest(t)
	_, err := db.SeedSampleData(testDB)
	require.NoError(t, err)

	tests := []struct {
		name        string
		query       string
		wantRows    int
		wantPage    float64
		wantPerPage float64
		wantTotal   float64
		wantPages   float64
	}{
		{"defaults", "", 5, 1, 10, 5, 1},
		{"city filter", "?city=Mumbai", 5, 1, 10, 5, 1},
		{"unknown city", "?city=Chennai", 0, 1, 10, 0, 0},
		{"search", "?search=REDDY", 1, 1, 10, 1, 1},
		{"paged", "?page=2&limit=2", 2, 2, 2, 5, 3},
		{"page_size alias", "?page_size=3", 3, 1, 3, 5, 2},
		{"non numeric falls back", "?page=abc&limit=x", 5, 1, 10, 5, 1},
		{"capped limit", "?limit=5000", 5, 1, 100, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/customers"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			response := decode(t, w)
			assert.Equal(t, "success", response["message"])
			assert.Len(t, response["data"], tt.wantRows)

			pagination := response["pagination"].(map[string]interface{})
			assert.Equal(t, tt.wantPage, pagination["current_page"])
			assert.Equal(t, tt.wantPerPage, pagination["per_page"])
			assert.Equal(t, tt.wantTotal, pagination["total_records"])
			assert.Equal(t, tt.wantPages, pagination["total_pages"])
		})
	}

	w := doRequest(router, http.MethodGet, "/customers?city=Mumbai", nil)
	for _, row := range decode(t, w)["data"].([]interface{}) {
		assert.Equal(t, float64(2), row.(map[string]interface{})["address_count"])
	}
}

func TestCustomerController_ExportCustomers(t *testing.T) {
	router, testDB := setupControllerTest(t)
	_, err := db.SeedSampleData(testDB)
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/customers/export?search=rajesh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"customers-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.CustomerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one customer")
	assert.Equal(t, "Rajesh", rows[1][1])
	assert.Equal(t, "2", rows[1][4])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
