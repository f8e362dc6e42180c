package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"shopline-api/internal/database"
	"shopline-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	log        *slog.Logger
	db         *sql.DB
	orders     service.OrderService
	reviews    service.ReviewService
	returns    service.ReturnRequestService
	warehouses service.WarehouseService
}

func New(
	log *slog.Logger,
	db *sql.DB,
	orders service.OrderService,
	reviews service.ReviewService,
	returns service.ReturnRequestService,
	warehouses service.WarehouseService,
) *Server {
	return &Server{
		log:        log,
		db:         db,
		orders:     orders,
		reviews:    reviews,
		returns:    returns,
		warehouses: warehouses,
	}
}

func (s *Server) Router(allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/warehouses", s.listWarehouses)
	api.GET("/products/:id/reviews", s.productReviews)

	authed := api.Group("", CallerRequired())
	authed.POST("/orders", s.createOrder)
	authed.GET("/orders", s.listMyOrders)
	authed.POST("/orders/:id/pay", s.payOrder)
	authed.GET("/employee/orders", s.listAllOrders)
	authed.POST("/orders/:id/assign-warehouses", s.assignWarehouses)
	authed.PUT("/warehouses/:id/stock", s.updateStock)
	authed.POST("/reviews", s.createReview)
	authed.POST("/return-requests", s.createReturnRequest)
	authed.GET("/return-requests", s.listReturnRequests)
	authed.PUT("/return-requests/:id", s.decideReturnRequest)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, database.Health(s.db))
}
