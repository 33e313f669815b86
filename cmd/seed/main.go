package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yusupov7274-oss/mvp-crm-ru/config"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
)

// Imports businesses from an XLSX export. Expected columns:
// название, город, направление, тип (own/franchise), валюта, контакт собственника.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	businesses, err := readBusinessesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total businesses to import: %d\n", len(businesses))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := businessRepo.BulkCreate(businesses, batchSize); err != nil {
		log.Fatal("Failed to bulk create businesses:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total businesses imported: %d\n", len(businesses))
}

func readBusinessesFromXLSX(filePath string) ([]model.Business, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var businesses []model.Business
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		title := cell(row, 0)
		city := cell(row, 1)
		direction := cell(row, 2)
		kindRaw := strings.ToLower(cell(row, 3))
		currencyRaw := strings.ToUpper(cell(row, 4))
		contact := cell(row, 5)

		if title == "" {
			skippedCount++
			continue
		}

		// Deduplicate by title and city
		key := title + "|" + city
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		kind := model.BusinessKind(kindRaw)
		if !kind.Valid() {
			kind = model.KindOwn
		}

		currency := model.Currency(currencyRaw)
		if !currency.Valid() {
			currency = model.CurrencyRUB
		}

		businesses = append(businesses, model.Business{
			Title:        title,
			City:         city,
			Direction:    direction,
			Kind:         kind,
			Currency:     currency,
			OwnerContact: contact,
			Status:       model.StatusNew,
		})
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid businesses: %d\n", len(businesses))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return businesses, nil
}

// cell reads a column safely, XLSX rows are ragged on trailing blanks
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
