package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

const (
	ActionRefund  = "Refund"
	ActionReplace = "Replace"
)

var (
	ErrInvalidStatus     = errors.New("invalid return status")
	ErrUnknownAction     = errors.New("invalid action")
	ErrReturnNotFound    = errors.New("return not found")
	ErrTerminalReturn    = errors.New("return is in a terminal state")
	ErrInvalidTransition = errors.New("invalid return status transition")
	ErrInvalidAction     = errors.New("action requires an approved return")
	ErrAlreadyRefunded   = errors.New("refund already issued for this return")
	ErrReplacementExists = errors.New("replacement already offered for this return")
	ErrPaymentMissing    = errors.New("no payment record for order")
)

// -------- Request Structs --------

type CreateReturnRequest struct {
	Reason string `json:"reason"`
}

type UpdateReturnStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Action string `json:"action"` // Refund or Replace, only with status Approved
}

// ReturnResult reports what an update produced beyond the status write.
type ReturnResult struct {
	ReplacementOrderID uint
	RefundAmount       float64
	Alerts             []inventory.Alert
}

// -------- Helpers --------

func mapReturnStatus(status string) (models.ReturnStatus, error) {
	switch strings.ToLower(status) {
	case "pending":
		return models.ReturnStatusPending, nil
	case "approved":
		return models.ReturnStatusApproved, nil
	case "rejected":
		return models.ReturnStatusRejected, nil
	case "processed":
		return models.ReturnStatusProcessed, nil
	default:
		return "", ErrInvalidStatus
	}
}

// canTransition encodes the return state machine:
// Pending -> Approved -> Processed, Pending -> Rejected (terminal).
func canTransition(from, to models.ReturnStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case models.ReturnStatusPending:
		return to == models.ReturnStatusApproved || to == models.ReturnStatusRejected
	case models.ReturnStatusApproved:
		return to == models.ReturnStatusProcessed
	default:
		return false
	}
}

// -------- Core Logic --------

// UpdateReturnStatus applies a status transition and, when the return
// is Approved, an optional Refund or Replace action. The whole update
// is one transaction; a failure in either branch leaves the return
// untouched.
func UpdateReturnStatus(db *gorm.DB, inv *inventory.Service, returnID string, req UpdateReturnStatusRequest) (*ReturnResult, error) {
	newStatus, err := mapReturnStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if req.Action != "" && req.Action != ActionRefund && req.Action != ActionReplace {
		return nil, ErrUnknownAction
	}

	result := &ReturnResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		var ret models.Return
		if err := tx.First(&ret, "id = ?", returnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReturnNotFound
			}
			return err
		}

		if ret.Status == models.ReturnStatusRejected || ret.Status == models.ReturnStatusProcessed {
			return ErrTerminalReturn
		}
		if !canTransition(ret.Status, newStatus) {
			return ErrInvalidTransition
		}

		// Approval puts the returned units back in stock.
		if newStatus == models.ReturnStatusApproved && ret.Status == models.ReturnStatusPending {
			if err := restockReturnedItems(tx, inv, ret.OrderID); err != nil {
				return err
			}
		}
		ret.Status = newStatus

		if req.Action != "" {
			if ret.Status != models.ReturnStatusApproved {
				return ErrInvalidAction
			}
			switch req.Action {
			case ActionRefund:
				if err := issueRefund(tx, &ret, result); err != nil {
					return err
				}
			case ActionReplace:
				if err := createReplacementOrder(tx, inv, &ret, result); err != nil {
					return err
				}
			}
		}

		return tx.Save(&ret).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func restockReturnedItems(tx *gorm.DB, inv *inventory.Service, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		if _, err := inv.Restock(tx, item.ProductID, item.Quantity, models.ChangeReturn); err != nil {
			return err
		}
	}
	return nil
}

// issueRefund pays back the full order amount. The payment row is the
// authoritative already-refunded guard; RefundIssued mirrors it on the
// return for symmetry with ReplacementOffered.
func issueRefund(tx *gorm.DB, ret *models.Return, result *ReturnResult) error {
	var payment models.Payment
	if err := tx.First(&payment, "order_id = ?", ret.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentMissing
		}
		return err
	}
	if payment.PaymentStatus == models.PaymentStatusRefunded || ret.RefundIssued {
		return ErrAlreadyRefunded
	}

	var order models.Order
	if err := tx.First(&order, ret.OrderID).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	payment.PaymentStatus = models.PaymentStatusRefunded
	payment.RefundAmount = order.TotalAmount
	payment.RefundDate = &now
	if err := tx.Save(&payment).Error; err != nil {
		return err
	}
	if err := tx.Model(&order).Update("status", models.OrderStatusRefunded).Error; err != nil {
		return err
	}

	ret.Status = models.ReturnStatusProcessed
	ret.RefundIssued = true
	result.RefundAmount = order.TotalAmount
	return nil
}

// createReplacementOrder fulfills an approved return with a new order
// copying the original's lines and total, deducting fresh stock.
func createReplacementOrder(tx *gorm.DB, inv *inventory.Service, ret *models.Return, result *ReturnResult) error {
	if ret.ReplacementOffered {
		return ErrReplacementExists
	}

	var original models.Order
	if err := tx.Preload("Items").First(&original, ret.OrderID).Error; err != nil {
		return err
	}

	items := make([]models.OrderItem, 0, len(original.Items))
	for _, item := range original.Items {
		_, alerts, err := inv.Deduct(tx, item.ProductID, item.Quantity, models.ChangeReplacementOrder)
		if err != nil {
			return err
		}
		result.Alerts = append(result.Alerts, alerts...)
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	replacement := models.Order{
		UserID:        original.UserID,
		OrderDate:     time.Now().UTC(),
		Status:        models.OrderStatusProcessing,
		PaymentStatus: models.PaymentStatusUnpaid,
		TotalAmount:   original.TotalAmount,
		Items:         items,
	}
	if err := tx.Create(&replacement).Error; err != nil {
		return err
	}
	// Every order carries a payment row; a return on the replacement
	// must be refundable like any other.
	if err := tx.Create(&models.Payment{
		OrderID:       replacement.ID,
		PaymentStatus: models.PaymentStatusUnpaid,
	}).Error; err != nil {
		return err
	}

	ret.ReplacementOffered = true
	result.ReplacementOrderID = replacement.ID
	return nil
}

// -------- Handlers --------

func CreateReturnHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req CreateReturnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		ret := models.Return{
			OrderID:    order.ID,
			Reason:     req.Reason,
			Status:     models.ReturnStatusPending,
			ReturnDate: time.Now().UTC(),
		}
		if err := db.Create(&ret).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create return"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Return request created successfully", "return_id": ret.ID})
	}
}

func GetAllReturnsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var returns []models.Return
		if err := db.Order("return_date DESC").Find(&returns).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch returns"})
			return
		}
		c.JSON(http.StatusOK, returns)
	}
}

func GetReturnByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ret models.Return
		if err := db.First(&ret, "id = ?", c.Param("returnID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Return not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch return"})
			return
		}
		c.JSON(http.StatusOK, ret)
	}
}

// GetAllRefundsHandler lists returns joined with their payment rows.
// Payment columns are pointers: an order without a payment row comes
// back as null, not as a zero-valued payment.
func GetAllRefundsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type refundRow struct {
			ReturnID      uint                  `json:"return_id"`
			OrderID       uint                  `json:"order_id"`
			Reason        string                `json:"reason"`
			Status        models.ReturnStatus   `json:"status"`
			PaymentStatus *models.PaymentStatus `json:"payment_status"`
			RefundAmount  *float64              `json:"refund_amount"`
			RefundDate    *time.Time            `json:"refund_date"`
		}
		var rows []refundRow
		if err := db.Table("returns").
			Select("returns.id AS return_id, returns.order_id, returns.reason, returns.status, payments.payment_status, payments.refund_amount, payments.refund_date").
			Joins("LEFT JOIN payments ON payments.order_id = returns.order_id").
			Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch refunds"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func UpdateReturnStatusHandler(db *gorm.DB, inv *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateReturnStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := UpdateReturnStatus(db, inv, c.Param("returnID"), req)
		if err != nil {
			switch {
			case errors.Is(err, ErrReturnNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrTerminalReturn),
				errors.Is(err, ErrInvalidTransition),
				errors.Is(err, ErrInvalidAction),
				errors.Is(err, ErrAlreadyRefunded),
				errors.Is(err, ErrReplacementExists),
				errors.Is(err, inventory.ErrInsufficientStock),
				errors.Is(err, ErrInvalidStatus),
				errors.Is(err, ErrUnknownAction):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Printf("return status update failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}

		inv.Broadcast(result.Alerts)
		resp := gin.H{"message": "Return status updated successfully"}
		if result.ReplacementOrderID != 0 {
			resp["replacement_order_id"] = result.ReplacementOrderID
		}
		if result.RefundAmount > 0 {
			resp["refund_amount"] = result.RefundAmount
		}
		c.JSON(http.StatusOK, resp)
	}
}
