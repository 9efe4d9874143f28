package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nrasaily/SleepSentinelPro/internal/service"
)

func GetSettings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Sleep().Settings(), nil)
	}
}

func PutSettings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SettingsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSettingsRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}
		settings := body.ToSettings()
		app.Sleep().UpdateSettings(c.Request.Context(), settings)
		HandleSuccess(c, app.Logger(), settings, nil)
	}
}
