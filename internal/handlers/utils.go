package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mrkr-backend/internal/db"
	"github.com/yungbote/mrkr-backend/internal/domain"
)

type UtilsHandler struct {
	dbService *db.DatabaseService
}

func NewUtilsHandler(dbService *db.DatabaseService) *UtilsHandler {
	return &UtilsHandler{dbService: dbService}
}

// HealthCheck reports liveness, including a database ping. The endpoint
// always answers 200; the body carries the health verdict.
func (uh *UtilsHandler) HealthCheck(c *gin.Context) {
	if err := uh.dbService.Ping(); err != nil {
		c.JSON(http.StatusOK, gin.H{"health": "unhealthy", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"health": "healthy", "message": ""})
}

// pathID parses the numeric id path parameter.
func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.BadRequest("invalid id: %s", raw)
	}
	return id, nil
}
