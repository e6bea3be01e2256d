package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/customer-records-backend/config"
	"github.com/ikkim/customer-records-backend/internal/app/repository"
	"github.com/ikkim/customer-records-backend/internal/app/service"
	"github.com/ikkim/customer-records-backend/internal/db"
	"github.com/ikkim/customer-records-backend/internal/export"
)

const usage = "Usage: go run ./cmd/seed (--sample | <xlsx_file_path> [--yes])"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	gdb, err := db.Initialize(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if os.Args[1] == "--sample" {
		seeded, err := db.SeedSampleData(gdb)
		if err != nil {
			log.Fatal("Failed to seed sample data:", err)
		}
		if seeded {
			fmt.Println("Sample customers inserted.")
		} else {
			fmt.Println("Customers table is not empty, nothing inserted.")
		}
		return
	}

	filePath := os.Args[1]
	fmt.Printf("Reading XLSX file: %s\n", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	records, err := export.ReadCustomers(file)
	file.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total customers to import: %d\n", len(records))

	if len(os.Args) < 3 || os.Args[2] != "--yes" {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	customerService := service.NewCustomerService(repository.NewCustomerRepository(gdb))

	imported, skipped := 0, 0
	for _, rec := range records {
		if _, err := customerService.ImportCustomer(rec.Customer, rec.Addresses); err != nil {
			skipped++
			fmt.Printf("Row %d skipped (%s): %v\n", rec.Row, rec.Customer.PhoneNumber, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed.")
	fmt.Printf("Imported: %d, skipped: %d\n", imported, skipped)
}
