package service

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrValidation is matched by every *ValidationError
var ErrValidation = errors.New("validation failed")

var (
	phoneNumberPattern = regexp.MustCompile(`^\d{10}$`)
	pinCodePattern     = regexp.MustCompile(`^\d{6}$`)
)

// ValidationError maps field names to what is wrong with them
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type validator struct {
	fields map[string]string
}

func (v *validator) require(field, value string) bool {
	if value == "" {
		v.fail(field, "is required")
		return false
	}
	return true
}

func (v *validator) match(field, value string, pattern *regexp.Regexp, msg string) {
	if v.require(field, value) && !pattern.MatchString(value) {
		v.fail(field, msg)
	}
}

func (v *validator) fail(field, msg string) {
	if v.fields == nil {
		v.fields = map[string]string{}
	}
	v.fields[field] = msg
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// CustomerInput is the writable part of a customer
type CustomerInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

func (in CustomerInput) normalize() CustomerInput {
	return CustomerInput{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
}

// Validate trims every field and checks it. Phone numbers are exactly 10 digits.
func (in CustomerInput) Validate() (CustomerInput, error) {
	in = in.normalize()

	var v validator
	v.require("first_name", in.FirstName)
	v.require("last_name", in.LastName)
	v.match("phone_number", in.PhoneNumber, phoneNumberPattern, "must be exactly 10 digits")
	return in, v.err()
}

// AddressInput is the writable part of an address
type AddressInput struct {
	AddressDetails string
	City           string
	State          string
	PinCode        string
}

func (in AddressInput) normalize() AddressInput {
	return AddressInput{
		AddressDetails: strings.TrimSpace(in.AddressDetails),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		PinCode:        strings.TrimSpace(in.PinCode),
	}
}

// Validate trims every field and checks it. Pin codes are exactly 6 digits.
func (in AddressInput) Validate() (AddressInput, error) {
	in = in.normalize()

	var v validator
	v.require("address_details", in.AddressDetails)
	v.require("city", in.City)
	v.require("state", in.State)
	v.match("pin_code", in.PinCode, pinCodePattern, "must be exactly 6 digits")
	return in, v.err()
}
