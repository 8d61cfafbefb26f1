package handlers

import (
	"net/http"

	"bakery-pos-api/middleware"
	"bakery-pos-api/models"
	"bakery-pos-api/services"
	"bakery-pos-api/statemachine"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders   *services.OrderService
	payments *services.PaymentService
}

func NewOrderHandler(orders *services.OrderService, payments *services.PaymentService) *OrderHandler {
	return &OrderHandler{orders: orders, payments: payments}
}

type CreateOrderRequest struct {
	CustomerName string `json:"customer_name"`
	Items        []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// Create opens a new PENDING order for the logged-in attendant
func (h *OrderHandler) Create(c *gin.Context) {
	attendantID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svcReq := services.CreateOrderRequest{CustomerName: req.CustomerName}
	for _, item := range req.Items {
		svcReq.Items = append(svcReq.Items, services.CreateOrderLineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), svcReq, attendantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created",
		"order":   order,
		"ticket":  order.TicketNumber,
	})
}

// Get returns a single order's full detail
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// List returns all orders, optionally filtered by ?status=
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ListReady returns the current ready queue for the counter and customer displays
func (h *OrderHandler) ListReady(c *gin.Context) {
	orders, err := h.orders.ListReady(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// Pay settles a PENDING order: decrements stock and moves it to READY
func (h *OrderHandler) Pay(c *gin.Context) {
	attendantID := middleware.GetUserID(c)

	var req services.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.payments.SettlePayment(c.Request.Context(), c.Param("id"), req, attendantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment accepted",
		"order":   order,
		"change":  order.Payment.ChangeDue,
	})
}

// Deliver hands a READY order over to the customer
func (h *OrderHandler) Deliver(c *gin.Context) {
	order, err := h.payments.MarkDelivered(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order delivered", "order": order})
}

// Cancel voids a PENDING order
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.payments.CancelOrder(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{string(models.StatusDelivered), string(models.StatusCancelled)},
		"description":     "Bakery POS Order Lifecycle State Machine",
	})
}
