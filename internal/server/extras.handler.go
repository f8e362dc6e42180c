package server

import (
	"net/http"

	"shopline-api/internal/domain"
	"shopline-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createReviewRequest struct {
	OrderID     int64   `json:"order_id" binding:"required"`
	OrderItemID int     `json:"order_item_id" binding:"required"`
	Rating      int     `json:"review_rating" binding:"required,min=1,max=5"`
	Title       *string `json:"title"`
	Comment     *string `json:"comment"`
}

type createReturnRequest struct {
	OrderID     int64   `json:"order_id" binding:"required"`
	OrderItemID int     `json:"order_item_id" binding:"required"`
	Reason      *string `json:"reason"`
}

type decideReturnRequest struct {
	RequestStatus string           `json:"request_status" binding:"required,oneof=accepted rejected"`
	Amount        *decimal.Decimal `json:"amount"`
	Reason        *string          `json:"reason"`
}

type updateStockRequest struct {
	StockAmount *int `json:"stock_amount" binding:"required,min=0"`
}

func (s *Server) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := s.reviews.Create(c.Request.Context(), caller(c), service.CreateReviewInput{
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		Rating:      req.Rating,
		Title:       req.Title,
		Comment:     req.Comment,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (s *Server) productReviews(c *gin.Context) {
	productID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	reviews, err := s.reviews.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (s *Server) createReturnRequest(c *gin.Context) {
	var req createReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	request, err := s.returns.Create(c.Request.Context(), caller(c), service.CreateReturnInput{
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		Reason:      req.Reason,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"return_request": request})
}

func (s *Server) listReturnRequests(c *gin.Context) {
	requests, err := s.returns.List(c.Request.Context(), caller(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) decideReturnRequest(c *gin.Context) {
	requestID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req decideReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := s.returns.Decide(c.Request.Context(), caller(c), requestID, service.DecideReturnInput{
		Status: domain.ReturnStatus(req.RequestStatus),
		Amount: req.Amount,
		Reason: req.Reason,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listWarehouses(c *gin.Context) {
	warehouses, err := s.warehouses.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouses": warehouses})
}

func (s *Server) updateStock(c *gin.Context) {
	warehouseID, err := pathID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	warehouse, err := s.warehouses.UpdateStock(c.Request.Context(), caller(c), warehouseID, *req.StockAmount)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouse": warehouse})
}
