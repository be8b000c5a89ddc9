package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/realtime"
	"github.com/thanwa/qr-table-order/session"
	"github.com/thanwa/qr-table-order/utils"
)

type OrderController struct {
	DB       *gorm.DB
	Sessions *session.Service
}

func NewOrderController(db *gorm.DB, sessions *session.Service) *OrderController {
	return &OrderController{DB: db, Sessions: sessions}
}

// CreateOrder takes the customer's whole cart as one order. The presented
// session id must match the table's current one; a code printed before the
// last table reset can no longer order. Prices are snapshotted from the menu
// at this moment; later menu edits never change what this order charges.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ItemReq struct {
		MenuID       uint   `json:"menu_id"`
		Quantity     int    `json:"quantity"`
		Notes        string `json:"notes"`
		CustomerName string `json:"customer_name"`
	}
	type ReqBody struct {
		TableID      uint      `json:"table_id" binding:"required"`
		SessionID    string    `json:"session_id"`
		CustomerName *string   `json:"customer_name"`
		Items        []ItemReq `json:"items" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if len(body.Items) == 0 {
		utils.RespondAppError(c, apperr.Validation("order must contain at least one item"))
		return
	}
	for _, item := range body.Items {
		if item.Quantity < 1 {
			utils.RespondAppError(c, apperr.Validation("quantity must be at least 1"))
			return
		}
	}

	var table models.Table
	if err := oc.DB.Where("id = ? AND is_active = ?", body.TableID, true).First(&table).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("table %d not found or inactive", body.TableID))
		return
	}

	validation := oc.Sessions.Validate(body.TableID, body.SessionID)
	if !validation.Valid {
		utils.RespondAppError(c, apperr.InvalidSession("cannot place order: %s", validation.Reason))
		return
	}

	// Snapshot menu prices before building the order.
	menuIDs := make([]uint, 0, len(body.Items))
	for _, item := range body.Items {
		menuIDs = append(menuIDs, item.MenuID)
	}
	var menus []models.Menu
	if err := oc.DB.Where("id IN ?", menuIDs).Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	menuByID := make(map[uint]models.Menu, len(menus))
	for _, menu := range menus {
		menuByID[menu.ID] = menu
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		menu, found := menuByID[item.MenuID]
		if !found {
			utils.RespondAppError(c, apperr.NotFound("menu item %d not found", item.MenuID))
			return
		}
		if !menu.IsAvailable {
			utils.RespondAppError(c, apperr.Validation("menu item %s is not available", menu.Name))
			return
		}

		total += float64(item.Quantity) * menu.Price
		orderItems = append(orderItems, models.OrderItem{
			MenuID:       menu.ID,
			Quantity:     item.Quantity,
			Price:        menu.Price,
			Notes:        item.Notes,
			CustomerName: item.CustomerName,
		})
	}

	order := models.Order{
		// A random suffix keeps the unique index safe under concurrent
		// creates in the same millisecond.
		OrderNumber:  fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		TableID:      table.ID,
		CustomerName: body.CustomerName,
		Status:       models.StatusPending,
		TotalAmount:  total,
		OrderItems:   orderItems,
	}

	// One create writes the order and its items together; a partial order
	// can never be observed.
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.DB.Preload("OrderItems.Menu").Preload("Table").First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastOrderCreate(order)

	utils.InfoLogger.Printf("Order %s created for table %s (total=%.2f)", order.OrderNumber, table.TableNumber, total)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID shows one order with its items.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var order models.Order
	if err := oc.DB.Preload("OrderItems.Menu").Preload("Table").First(&order, orderID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("order %d not found", orderID))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders lists orders, optionally filtered by table, status, or
// active=true (any non-terminal status, per the status machine).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("OrderItems.Menu").Preload("Table").Order("created_at desc")

	if tableID := c.Query("table_id"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}
	if status := c.Query("status"); status != "" {
		target := models.OrderStatus(status)
		if !target.Valid() {
			utils.RespondAppError(c, apperr.Validation("unknown order status %s", status))
			return
		}
		query = query.Where("status = ?", target)
	}
	if c.Query("active") == "true" {
		query = query.Where("status IN ?", models.ActiveStatuses())
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrdersByTable lists one table's orders for the customer-facing orders
// page.
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("OrderItems.Menu").
		Where("table_id = ?", tableID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}

// UpdateOrderStatus advances an order through the status machine. The write
// is a compare-and-swap on the previously read status, so two staff racing
// on the same order cannot both win; the loser gets a 409.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target := models.OrderStatus(req.Status)
	if !target.Valid() {
		utils.RespondAppError(c, apperr.Validation("unknown order status %s", req.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("order %d not found", orderID))
		return
	}

	previous := order.Status
	if err := order.TransitionTo(target); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	res := oc.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, previous).
		Updates(map[string]interface{}{"status": target, "updated_at": time.Now()})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondAppError(c, apperr.Conflict("order %d was updated concurrently", order.ID))
		return
	}

	if err := oc.DB.Preload("OrderItems.Menu").Preload("Table").First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastOrderUpdate(order)
	// Tell open dashboards their stats are stale; they refetch on this event.
	realtime.BroadcastDashboardUpdate(gin.H{"order_id": order.ID, "status": order.Status})

	utils.InfoLogger.Printf("Order %s: %s -> %s", order.OrderNumber, previous, target)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder lets the ordering customer void their own order, but only
// while it is still PENDING and only with the table's current session.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.SessionID == "" {
		req.SessionID = c.Query("session_id")
	}

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("order %d not found", orderID))
		return
	}

	validation := oc.Sessions.Validate(order.TableID, req.SessionID)
	if !validation.Valid {
		utils.RespondAppError(c, apperr.InvalidSession("cannot cancel order: %s", validation.Reason))
		return
	}

	if order.Status != models.StatusPending {
		utils.RespondAppError(c, apperr.Validation("order can no longer be cancelled (status %s)", order.Status))
		return
	}

	res := oc.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.StatusPending).
		Updates(map[string]interface{}{"status": models.StatusCancelled, "updated_at": time.Now()})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondAppError(c, apperr.Conflict("order %d was updated concurrently", order.ID))
		return
	}

	order.Status = models.StatusCancelled
	realtime.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
