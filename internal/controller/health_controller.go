package controller

import (
	"net/http"
	"readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

func (ctrl *HealthController) HealthCheck(c *gin.Context) {
	sqlDB, err := ctrl.DB.DB()
	if err != nil {
		util.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	if err := sqlDB.Ping(); err != nil {
		util.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(c, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
		},
	})
}
