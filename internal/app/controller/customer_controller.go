package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	apperrors "github.com/ikkim/customer-records-backend/internal/errors"
	"github.com/ikkim/customer-records-backend/internal/export"
	"github.com/ikkim/customer-records-backend/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
	}
}

type CustomerRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

func (r CustomerRequest) input() service.CustomerInput {
	return service.CustomerInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
	}
}

// ListCustomers returns a filtered page of customers with address counts
// GET /api/customers?search=&city=&page=&limit=
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	filter := customerFilterFromQuery(c)
	page := model.PageRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "limit", "page_size"),
	}

	rows, pagination, err := ctrl.customerService.ListCustomers(filter, page)
	if err != nil {
		respondServiceError(c, err, "list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "success",
		"data":       rows,
		"pagination": pagination,
	})
}

// GetCustomer returns a customer with its addresses
// GET /api/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := ctrl.customerService.GetCustomer(id)
	if err != nil {
		respondServiceError(c, err, "get customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    customer,
	})
}

// CreateCustomer
// POST /api/customers
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := ctrl.customerService.CreateCustomer(req.input())
	if err != nil {
		respondServiceError(c, err, "create customer")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Customer created", map[string]interface{}{
		"customer_id": customer.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Customer created successfully",
		"data":    customer,
	})
}

// UpdateCustomer
// PUT /api/customers/:id
func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := ctrl.customerService.UpdateCustomer(id, req.input())
	if err != nil {
		respondServiceError(c, err, "update customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer updated successfully",
		"data":    customer,
	})
}

// DeleteCustomer removes a customer and all of its addresses
// DELETE /api/customers/:id
func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.customerService.DeleteCustomer(id); err != nil {
		respondServiceError(c, err, "delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer deleted successfully",
	})
}

// ExportCustomers streams every customer matching the filters as XLSX
// GET /api/customers/export?search=&city=
func (ctrl *CustomerController) ExportCustomers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	rows, err := ctrl.customerService.ListAllCustomers(customerFilterFromQuery(c))
	if err != nil {
		respondServiceError(c, err, "export customers")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCustomers(&buf, rows); err != nil {
		log.Error("Failed to render customer export", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExportError, "Failed to build export")
		return
	}

	filename := fmt.Sprintf("customers-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func customerFilterFromQuery(c *gin.Context) model.CustomerFilter {
	return model.CustomerFilter{
		Search: c.Query("search"),
		City:   c.Query("city"),
	}
}

// queryInt returns the first of names present as an integer, or 0
func queryInt(c *gin.Context, names ...string) int {
	for _, name := range names {
		if raw, ok := c.GetQuery(name); ok && raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return 0
			}
			return n
		}
	}
	return 0
}
