package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ikkim/customer-records-backend/internal/app/model"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const (
	CustomerSheet = "Customers"
	ContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var listingHeader = []interface{}{"ID", "First Name", "Last Name", "Phone Number", "Address Count", "Created At"}

// WriteCustomers renders a customer listing as an XLSX workbook
func WriteCustomers(w io.Writer, rows []model.CustomerSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CustomerSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(CustomerSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	if err := sw.SetRow("A1", listingHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.ID,
			r.FirstName,
			r.LastName,
			r.PhoneNumber,
			r.AddressCount,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// ImportRecord is one customer read from a spreadsheet with the addresses
// found for its phone number. Row is the first sheet row it appeared on.
type ImportRecord struct {
	Row       int
	Customer  service.CustomerInput
	Addresses []service.AddressInput
}

var requiredColumns = []string{"first_name", "last_name", "phone_number"}

// ReadCustomers reads the first sheet of an XLSX workbook. The header row must
// name first_name, last_name and phone_number; address_details, city, state
// and pin_code are optional. Rows sharing a phone number become one customer.
func ReadCustomers(r io.Reader) ([]ImportRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in XLSX")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX")
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := []ImportRecord{}
	byPhone := map[string]int{}

	for i, row := range rows[1:] {
		phone := cell(row, "phone_number")
		first, last := cell(row, "first_name"), cell(row, "last_name")
		address := service.AddressInput{
			AddressDetails: cell(row, "address_details"),
			City:           cell(row, "city"),
			State:          cell(row, "state"),
			PinCode:        cell(row, "pin_code"),
		}
		hasAddress := address != (service.AddressInput{})

		if phone == "" && first == "" && last == "" && !hasAddress {
			continue
		}

		idx, seen := byPhone[phone]
		if !seen || phone == "" {
			records = append(records, ImportRecord{
				Row: i + 2,
				Customer: service.CustomerInput{
					FirstName:   first,
					LastName:    last,
					PhoneNumber: phone,
				},
			})
			idx = len(records) - 1
			if phone != "" {
				byPhone[phone] = idx
			}
		}
		if hasAddress {
			records[idx].Addresses = append(records[idx].Addresses, address)
		}
	}

	return records, nil
}
