package productcontroller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Expected CSV columns. WarehouseStock uses "warehouseID:quantity"
// pairs separated by semicolons, e.g. "1:10;2:5".
var requiredColumns = []string{"Name", "Price", "StockQuantity"}

// ParseWarehouseColumn parses the "1:10;2:5" warehouse stock notation.
func ParseWarehouseColumn(s string) ([]WarehouseEntry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var entries []WarehouseEntry
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed warehouse stock entry %q", pair)
		}
		wid, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || wid == 0 {
			return nil, fmt.Errorf("invalid warehouse id in %q", pair)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("invalid quantity in %q", pair)
		}
		entries = append(entries, WarehouseEntry{WarehouseID: uint(wid), Quantity: qty})
	}
	return entries, nil
}

func parseRow(header map[string]int, record []string) (AddProductRequest, error) {
	get := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := get("Name")
	if name == "" {
		return AddProductRequest{}, errors.New("missing name")
	}
	price, err := strconv.ParseFloat(get("Price"), 64)
	if err != nil {
		return AddProductRequest{}, fmt.Errorf("invalid price %q", get("Price"))
	}
	stock, err := strconv.Atoi(get("StockQuantity"))
	if err != nil {
		return AddProductRequest{}, fmt.Errorf("invalid stock quantity %q", get("StockQuantity"))
	}
	entries, err := ParseWarehouseColumn(get("WarehouseStock"))
	if err != nil {
		return AddProductRequest{}, err
	}

	req := AddProductRequest{
		Name:           name,
		Description:    get("Description"),
		Price:          &price,
		Size:           get("Size"),
		Color:          get("Color"),
		Material:       get("Material"),
		StockQuantity:  &stock,
		Featured:       strings.EqualFold(get("Featured"), "true") || get("Featured") == "1",
		WarehouseStock: entries,
	}
	if v := get("CategoryID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return AddProductRequest{}, fmt.Errorf("invalid category id %q", v)
		}
		cid := uint(id)
		req.CategoryID = &cid
	}
	if v := get("SubCategoryID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return AddProductRequest{}, fmt.Errorf("invalid subcategory id %q", v)
		}
		sid := uint(id)
		req.SubCategoryID = &sid
	}
	return req, nil
}

// BulkUploadProducts imports products from a CSV file. Bad rows are
// skipped and counted; each good row commits independently so one
// malformed line cannot sink the whole import.
func BulkUploadProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open CSV file"})
			return
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1

		headerRecord, err := reader.Read()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is empty or missing header row"})
			return
		}
		header := make(map[string]int, len(headerRecord))
		for i, col := range headerRecord {
			header[strings.TrimSpace(col)] = i
		}
		for _, col := range requiredColumns {
			if _, ok := header[col]; !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing required column %q", col)})
				return
			}
		}

		created, skipped := 0, 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				skipped++
				continue
			}

			req, err := parseRow(header, record)
			if err != nil {
				skipped++
				continue
			}
			err = db.Transaction(func(tx *gorm.DB) error {
				_, txErr := createProduct(tx, req)
				return txErr
			})
			if err != nil {
				skipped++
				continue
			}
			created++
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Bulk upload completed",
			"created_count": created,
			"skipped_count": skipped,
		})
	}
}
