package server

import (
	"errors"
	"net/http"

	"shopline-api/internal/domain"

	"github.com/gin-gonic/gin"
)

var codeStatus = map[domain.ErrorCode]int{
	domain.CodeValidation:        http.StatusUnprocessableEntity,
	domain.CodeForbidden:         http.StatusForbidden,
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeConflict:          http.StatusConflict,
	domain.CodeInsufficientStock: http.StatusUnprocessableEntity,
}

func (s *Server) respondError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		body := gin.H{"code": de.Code, "message": de.Message}
		if de.Warehouse != "" {
			body["warehouse"] = de.Warehouse
		}
		c.JSON(codeStatus[de.Code], body)
		return
	}

	s.log.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"code": domain.CodeValidation, "message": err.Error()})
}
