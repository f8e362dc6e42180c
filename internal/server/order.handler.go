package server

import (
	"net/http"
	"strconv"

	"shopline-api/internal/domain"
	"shopline-api/internal/service"

	"github.com/gin-gonic/gin"
)

type orderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
}

type payOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type assignWarehousesRequest struct {
	WarehouseID int64 `json:"warehouse_id" binding:"required"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := service.CreateOrderInput{PaymentMethod: req.PaymentMethod}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := s.orders.Create(c.Request.Context(), caller(c), input)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) payOrder(c *gin.Context) {
	orderID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req payOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := s.orders.Pay(c.Request.Context(), caller(c), orderID, req.PaymentMethod)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listMyOrders(c *gin.Context) {
	orders, err := s.orders.ListMine(c.Request.Context(), caller(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) listAllOrders(c *gin.Context) {
	orders, err := s.orders.ListAll(c.Request.Context(), caller(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) assignWarehouses(c *gin.Context) {
	orderID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req assignWarehousesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := s.orders.AssignWarehouses(c.Request.Context(), caller(c), orderID, req.WarehouseID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid id %q", c.Param("id"))
	}
	return id, nil
}
