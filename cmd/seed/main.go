package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bazaarhq/bazaar-backend/config"
	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/bazaarhq/bazaar-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Imports an item catalog from an XLSX export. Expected columns, first row
// is the header:
//
//	0 name | 1 summary | 2 description | 3 price | 4 quantity | 5 category
//	6 custom_category | 7 condition | 8 origin | 9 weight | 10 image_url
//
// All imported items are listed under a single catalog seller account,
// created on first run.
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

	if err := db.Migrate(db.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	seller, err := ensureCatalogSeller()
	if err != nil {
		log.Fatal("Failed to set up catalog seller:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	items, skipped, err := readItemsFromXLSX(filePath, seller.ID)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total items to import: %d (skipped %d rows)\n", len(items), skipped)
	if len(items) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := db.GetDB().CreateInBatches(items, batchSize).Error; err != nil {
		log.Fatal("Failed to bulk create items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total items imported: %d\n", len(items))
}

func ensureCatalogSeller() (*model.User, error) {
	const email = "catalog@bazaar.local"

	var seller model.User
	err := db.GetDB().Where("email = ?", email).First(&seller).Error
	if err == nil {
		return &seller, nil
	}

	hash, err := util.HashPassword("catalog-import")
	if err != nil {
		return nil, err
	}

	seller = model.User{
		Email:        email,
		PasswordHash: hash,
		Username:     "catalog",
		FirstName:    "Catalog",
		Role:         model.RoleUser,
		Profile:      &model.Profile{IsSeller: true, EmailNotifications: true},
	}
	if err := db.GetDB().Create(&seller).Error; err != nil {
		return nil, err
	}

	fmt.Printf("Created catalog seller account: %s\n", email)
	return &seller, nil
}

func readItemsFromXLSX(filePath string, sellerID uint) ([]model.Item, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var items []model.Item
	seenSKUs := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 6 {
			skipped++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		priceStr := strings.TrimSpace(cell(row, 3))
		quantityStr := strings.TrimSpace(cell(row, 4))
		category := strings.ToLower(strings.TrimSpace(cell(row, 5)))

		if name == "" || priceStr == "" || category == "" {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skipped++
			continue
		}
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil || quantity < 0 {
			quantity = 0
		}

		item := model.Item{
			Name:           name,
			Summary:        strings.TrimSpace(cell(row, 1)),
			Description:    strings.TrimSpace(cell(row, 2)),
			Price:          price,
			Quantity:       quantity,
			Category:       model.ItemCategory(category),
			CustomCategory: strings.TrimSpace(cell(row, 6)),
			Condition:      model.ItemCondition(strings.ToLower(strings.TrimSpace(cell(row, 7)))),
			Origin:         strings.TrimSpace(cell(row, 8)),
			SellerID:       sellerID,
			IsAvailable:    quantity > 0,
		}
		if item.Condition == "" {
			item.Condition = model.ConditionNew
		}
		if weight, err := strconv.ParseFloat(strings.TrimSpace(cell(row, 9)), 64); err == nil {
			item.Weight = weight
		}
		item.Normalize()

		if fields := item.Validate(); len(fields) > 0 {
			skipped++
			continue
		}

		// SKU uniqueness within the import; the unique index catches the rest
		sku := util.GenerateSKU(skuSource(&item))
		for attempt := 0; seenSKUs[sku] && attempt < 5; attempt++ {
			sku = util.GenerateSKU(skuSource(&item))
		}
		seenSKUs[sku] = true
		item.SKU = sku

		if imageURL := strings.TrimSpace(cell(row, 10)); imageURL != "" {
			item.Images = []model.ItemImage{{URL: imageURL, Position: 0}}
		}

		items = append(items, item)

		if len(items)%500 == 0 {
			fmt.Printf("Processed %d items...\n", len(items))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid items: %d\n", len(items))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return items, skipped, nil
}

func skuSource(item *model.Item) string {
	if item.Category == model.CategoryOther && item.CustomCategory != "" {
		return item.CustomCategory
	}
	return string(item.Category)
}

// cell reads a column that may be missing on short rows
func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return row[index]
}
