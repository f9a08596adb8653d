package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/service"
)

// GetHealth serves the tri-state snapshot. A failed load still answers 200
// with the fallback record; the degraded flag drives the transient banner.
func GetHealth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := app.Health().ReadHealthSnapshot(c.Request.Context())
		var meta map[string]any
		if snap.Err != nil {
			meta = map[string]any{
				"degraded": true,
				"message":  "Error loading health data. Using sample data instead.",
			}
		}
		HandleSuccess(c, app.Logger(), snap.Data, meta)
	}
}

func PutHealth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd internal.HealthUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateHealthUpdate(&upd); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		rec := app.Health().UpdateHealthData(c.Request.Context(), upd)
		HandleSuccess(c, app.Logger(), rec, nil)
	}
}

// GetExport serves the combined payload as an indented-JSON attachment.
func GetExport(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := app.Health().ExportAll(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to assemble export")
			return
		}

		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to serialize export")
			return
		}

		c.Header("Content-Disposition", `attachment; filename="health-data-export.json"`)
		c.Data(http.StatusOK, "application/json", raw)
	}
}

func GetMilestones(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Health().Milestones(), nil)
	}
}

func GetStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		reachable := app.Health().CheckConnection(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"offline":   app.Health().IsOffline(),
			"reachable": reachable,
		})
	}
}
