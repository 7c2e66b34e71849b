package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

type line struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// Generate renders a PDF invoice for the order under dir and records an
// Invoice row. Returns gorm.ErrRecordNotFound when the order is missing.
func Generate(db *gorm.DB, orderID uint, dir string) (*models.Invoice, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}

	var lines []line
	if err := db.Table("order_items").
		Select("products.name, order_items.unit_price, order_items.quantity").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Scan(&lines).Error; err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		return nil, err
	}
	number := fmt.Sprintf("INV-%d", 1000+count+1)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("invoice_%d.pdf", orderID))

	if err := render(path, number, &order, lines); err != nil {
		return nil, err
	}

	inv := models.Invoice{
		InvoiceNumber: number,
		OrderID:       order.ID,
		InvoiceDate:   time.Now().UTC(),
		TotalAmount:   order.TotalAmount,
		FilePath:      path,
	}
	if err := db.Create(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func render(path, number string, order *models.Order, lines []line) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 7, "Invoice Number:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, number, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 7, "Order ID:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%d", order.ID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 7, "Order Date:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, order.OrderDate.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 7, "Customer ID:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%d", order.UserID), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 8, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.CellFormat(80, 7, l.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("$%.2f", l.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", l.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("$%.2f", l.UnitPrice*float64(l.Quantity)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 8, "Total Amount:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("$%.2f", order.TotalAmount), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 8, "Payment Status:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, string(order.PaymentStatus), "", 1, "L", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s UTC", time.Now().UTC().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Thank you for your business!", "", 1, "L", false, 0, "")

	return pdf.OutputFileAndClose(path)
}
