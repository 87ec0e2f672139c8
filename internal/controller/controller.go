package controller

import (
	"fmt"
	"net/http"

	"order-tracking-service/internal/dto"
	"order-tracking-service/internal/middleware"
	"order-tracking-service/internal/model"
	"order-tracking-service/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /orders — requiere token
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := ctl.Service.Create(c.Request.Context(), req.OwnerEmail, req.Description, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

// GET /orders — órdenes del usuario autenticado
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orders, err := ctl.Service.ListForOwner(c.Request.Context(), user.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:tracking_id — público, para seguimiento
func (ctl *OrderController) GetOrder(c *gin.Context) {
	o, err := ctl.Service.Get(c.Request.Context(), c.Param("tracking_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// PUT /orders/:tracking_id/update — admin
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := model.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.Update(c.Request.Context(), c.Param("tracking_id"), status, req.UpdateMessage); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "order has been successfully updated"})
}

// PUT /orders/:tracking_id/cancel — requiere token
func (ctl *OrderController) CancelOrder(c *gin.Context) {
	err := ctl.Service.Cancel(c.Request.Context(), c.Param("tracking_id"), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "order has been successfully cancelled"})
}

// DELETE /orders/:tracking_id/delete — admin
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	trackingID := c.Param("tracking_id")
	if err := ctl.Service.Delete(c.Request.Context(), trackingID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: fmt.Sprintf("Order with tracking id %s has been deleted", trackingID)})
}
