package server

import (
	"net/http"
	"strconv"

	"shopline-api/internal/domain"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// Authentication lives in front of this service; the gateway forwards the
// verified identity in headers. CallerRequired turns those headers into a
// domain.Caller or rejects the request.
func CallerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		role := domain.Role(c.GetHeader("X-User-Role"))
		switch role {
		case domain.RoleCustomer, domain.RoleSeller, domain.RoleEmployee:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		c.Set(callerKey, domain.Caller{ID: id, Role: role})
		c.Next()
	}
}

func caller(c *gin.Context) domain.Caller {
	return c.MustGet(callerKey).(domain.Caller)
}
