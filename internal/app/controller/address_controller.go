package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	"github.com/ikkim/customer-records-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	AddressDetails string `json:"address_details"`
	City           string `json:"city"`
	State          string `json:"state"`
	PinCode        string `json:"pin_code"`
}

func (r AddressRequest) input() service.AddressInput {
	return service.AddressInput{
		AddressDetails: r.AddressDetails,
		City:           r.City,
		State:          r.State,
		PinCode:        r.PinCode,
	}
}

// ListAddresses returns a customer's addresses, newest first
// GET /api/customers/:id/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.ListAddresses(customerID)
	if err != nil {
		respondServiceError(c, err, "list addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    addresses,
	})
}

// AddAddress
// POST /api/customers/:id/addresses
func (ctrl *AddressController) AddAddress(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	address, err := ctrl.addressService.AddAddress(customerID, req.input())
	if err != nil {
		respondServiceError(c, err, "add address")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Address added", map[string]interface{}{
		"customer_id": customerID,
		"address_id":  address.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Address added successfully",
		"data":    address,
	})
}

// GetAddress
// GET /api/addresses/:addressId
func (ctrl *AddressController) GetAddress(c *gin.Context) {
	addressID, ok := parseIDParam(c, "addressId")
	if !ok {
		return
	}

	address, err := ctrl.addressService.GetAddress(addressID)
	if err != nil {
		respondServiceError(c, err, "get address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    address,
	})
}

// UpdateAddress
// PUT /api/addresses/:addressId
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	addressID, ok := parseIDParam(c, "addressId")
	if !ok {
		return
	}

	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	address, err := ctrl.addressService.UpdateAddress(addressID, req.input())
	if err != nil {
		respondServiceError(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"data":    address,
	})
}

// DeleteAddress
// DELETE /api/addresses/:addressId
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	addressID, ok := parseIDParam(c, "addressId")
	if !ok {
		return
	}

	if err := ctrl.addressService.DeleteAddress(addressID); err != nil {
		respondServiceError(c, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}

// ListCities returns the distinct cities used by any address, sorted
// GET /api/cities
func (ctrl *AddressController) ListCities(c *gin.Context) {
	cities, err := ctrl.addressService.ListCities()
	if err != nil {
		respondServiceError(c, err, "list cities")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "success",
		"data":    cities,
	})
}
