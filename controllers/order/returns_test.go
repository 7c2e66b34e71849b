package orderControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

// placeOrder creates a product with the given stock, orders qty of it
// and opens a pending return for the order.
func placeOrderWithReturn(t *testing.T, db *gorm.DB, inv *inventory.Service, price float64, stock, qty int) (*models.Product, uint, *models.Return) {
	t.Helper()
	product := seedProduct(t, db, "Jacket", price, stock)
	orderID, _, err := CreateOrder(db, inv, CreateOrderRequest{
		UserID:   3,
		Products: []OrderLine{{ProductID: product.ID, Quantity: qty}},
	})
	require.NoError(t, err)

	ret := models.Return{
		OrderID:    orderID,
		Reason:     "wrong size",
		Status:     models.ReturnStatusPending,
		ReturnDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&ret).Error)
	return product, orderID, &ret
}

func returnIDStr(ret *models.Return) string {
	return fmt.Sprintf("%d", ret.ID)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.ReturnStatus
		ok       bool
	}{
		{models.ReturnStatusPending, models.ReturnStatusApproved, true},
		{models.ReturnStatusPending, models.ReturnStatusRejected, true},
		{models.ReturnStatusPending, models.ReturnStatusProcessed, false},
		{models.ReturnStatusApproved, models.ReturnStatusProcessed, true},
		{models.ReturnStatusApproved, models.ReturnStatusRejected, false},
		{models.ReturnStatusApproved, models.ReturnStatusPending, false},
		{models.ReturnStatusApproved, models.ReturnStatusApproved, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, canTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApprovalRestocksReturnedItems(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	product, _, ret := placeOrderWithReturn(t, db, inv, 50, 10, 3)

	var afterOrder models.Product
	require.NoError(t, db.First(&afterOrder, product.ID).Error)
	require.Equal(t, 7, afterOrder.StockQuantity)

	_, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{Status: "Approved"})
	require.NoError(t, err)

	var afterReturn models.Product
	require.NoError(t, db.First(&afterReturn, product.ID).Error)
	assert.Equal(t, 10, afterReturn.StockQuantity)

	var logCount int64
	require.NoError(t, db.Model(&models.InventoryLog{}).
		Where("change_type = ?", models.ChangeReturn).
		Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)

	var reloaded models.Return
	require.NoError(t, db.First(&reloaded, ret.ID).Error)
	assert.Equal(t, models.ReturnStatusApproved, reloaded.Status)
}

func TestRefundMarksPaymentAndOrder(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	_, orderID, ret := placeOrderWithReturn(t, db, inv, 50, 10, 2) // total 100

	result, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{
		Status: "Approved",
		Action: ActionRefund,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.RefundAmount)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "order_id = ?", orderID).Error)
	assert.Equal(t, models.PaymentStatusRefunded, payment.PaymentStatus)
	assert.Equal(t, 100.0, payment.RefundAmount)
	require.NotNil(t, payment.RefundDate)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Equal(t, models.OrderStatusRefunded, order.Status)

	var reloaded models.Return
	require.NoError(t, db.First(&reloaded, ret.ID).Error)
	assert.Equal(t, models.ReturnStatusProcessed, reloaded.Status)
	assert.True(t, reloaded.RefundIssued)

	// Processed is terminal, a second refund attempt bounces.
	_, err = UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{
		Status: "Approved",
		Action: ActionRefund,
	})
	require.ErrorIs(t, err, ErrTerminalReturn)
}

func TestReplaceCreatesOrderExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	product, orderID, ret := placeOrderWithReturn(t, db, inv, 25, 10, 2) // stock now 8

	result, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{
		Status: "Approved",
		Action: ActionReplace,
	})
	require.NoError(t, err)
	require.NotZero(t, result.ReplacementOrderID)
	require.NotEqual(t, orderID, result.ReplacementOrderID)

	var replacement models.Order
	require.NoError(t, db.Preload("Items").First(&replacement, result.ReplacementOrderID).Error)
	assert.Equal(t, models.OrderStatusProcessing, replacement.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, replacement.PaymentStatus)
	assert.Equal(t, 50.0, replacement.TotalAmount)
	require.Len(t, replacement.Items, 1)
	assert.Equal(t, 2, replacement.Items[0].Quantity)

	// Approval restocked 2, replacement deducted 2: net unchanged.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.StockQuantity)

	// Replaying the action must not mint another order.
	_, err = UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{
		Status: "Approved",
		Action: ActionReplace,
	})
	require.ErrorIs(t, err, ErrReplacementExists)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(2), orderCount)
}

func TestReplacementOrderIsRefundable(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	_, _, ret := placeOrderWithReturn(t, db, inv, 25, 10, 2) // total 50

	result, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{
		Status: "Approved",
		Action: ActionReplace,
	})
	require.NoError(t, err)

	// The replacement carries its own payment row like any order.
	var payment models.Payment
	require.NoError(t, db.First(&payment, "order_id = ?", result.ReplacementOrderID).Error)
	assert.Equal(t, models.PaymentStatusUnpaid, payment.PaymentStatus)

	// A return on the replacement order can complete the refund path.
	second := models.Return{
		OrderID:    result.ReplacementOrderID,
		Reason:     "damaged",
		Status:     models.ReturnStatusPending,
		ReturnDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&second).Error)

	refund, err := UpdateReturnStatus(db, inv, returnIDStr(&second), UpdateReturnStatusRequest{
		Status: "Approved",
		Action: ActionRefund,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, refund.RefundAmount)

	require.NoError(t, db.First(&payment, "order_id = ?", result.ReplacementOrderID).Error)
	assert.Equal(t, models.PaymentStatusRefunded, payment.PaymentStatus)
}

func TestRejectedReturnIsTerminal(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	product, _, ret := placeOrderWithReturn(t, db, inv, 30, 5, 1)

	_, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{Status: "Rejected"})
	require.NoError(t, err)

	// No restock on rejection.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 4, reloaded.StockQuantity)

	_, err = UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{Status: "Approved"})
	require.ErrorIs(t, err, ErrTerminalReturn)
}

func TestPendingToProcessedIsRejected(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	_, _, ret := placeOrderWithReturn(t, db, inv, 30, 5, 1)

	_, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{Status: "Processed"})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestActionRequiresApprovedStatus(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	_, _, ret := placeOrderWithReturn(t, db, inv, 30, 5, 1)

	_, err := UpdateReturnStatus(db, inv, returnIDStr(ret), UpdateReturnStatusRequest{
		Status: "Rejected",
		Action: ActionRefund,
	})
	require.ErrorIs(t, err, ErrInvalidAction)

	// Rolled back entirely: the return is still pending.
	var reloaded models.Return
	require.NoError(t, db.First(&reloaded, ret.ID).Error)
	assert.Equal(t, models.ReturnStatusPending, reloaded.Status)
}

func TestUpdateReturnStatusHandlerErrors(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	r := orderRouter(db, inv)

	w := postJSON(r, http.MethodPut, "/orders/returns/999/update-status", gin.H{"status": "Approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, _, ret := placeOrderWithReturn(t, db, inv, 30, 5, 1)

	w = postJSON(r, http.MethodPut, "/orders/returns/"+returnIDStr(ret)+"/update-status", gin.H{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, http.MethodPut, "/orders/returns/"+returnIDStr(ret)+"/update-status", gin.H{
		"status": "Approved",
		"action": "Discard",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefundsListMarksMissingPayment(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	r := orderRouter(db, inv)

	// Ordinary order with a payment row and a return.
	_, orderID, _ := placeOrderWithReturn(t, db, inv, 30, 5, 1)

	// Order written past the creation path, no payment row.
	orphan := models.Order{UserID: 2, OrderDate: time.Now().UTC(), Status: models.OrderStatusDelivered, TotalAmount: 30}
	require.NoError(t, db.Create(&orphan).Error)
	require.NoError(t, db.Create(&models.Return{
		OrderID:    orphan.ID,
		Reason:     "late",
		Status:     models.ReturnStatusPending,
		ReturnDate: time.Now().UTC(),
	}).Error)

	w := postJSON(r, http.MethodGet, "/orders/refunds/all", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []struct {
		OrderID       uint     `json:"order_id"`
		PaymentStatus *string  `json:"payment_status"`
		RefundAmount  *float64 `json:"refund_amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)

	byOrder := make(map[uint]*string)
	for _, row := range rows {
		byOrder[row.OrderID] = row.PaymentStatus
	}
	require.NotNil(t, byOrder[orderID])
	assert.Equal(t, "Pending", *byOrder[orderID])
	assert.Nil(t, byOrder[orphan.ID])
}

func TestCreateReturnHandler(t *testing.T) {
	db := openTestDB(t)
	inv := newService()
	tee := seedProduct(t, db, "Tee", 10, 5)
	r := orderRouter(db, inv)

	orderID, _, err := CreateOrder(db, inv, CreateOrderRequest{
		UserID:   1,
		Products: []OrderLine{{ProductID: tee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	w := postJSON(r, http.MethodPost, fmt.Sprintf("/orders/%d/create-return", orderID), gin.H{"reason": "damaged"})
	require.Equal(t, http.StatusCreated, w.Code)

	var ret models.Return
	require.NoError(t, db.First(&ret, "order_id = ?", orderID).Error)
	assert.Equal(t, models.ReturnStatusPending, ret.Status)
	assert.Equal(t, "damaged", ret.Reason)

	w = postJSON(r, http.MethodPost, "/orders/999/create-return", gin.H{"reason": "damaged"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
