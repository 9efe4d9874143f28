package api

import (
	"github.com/gin-gonic/gin"
)

// GetExportCSV streams the current collection as CSV.
func GetExportCSV(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := app.Sleep().ExportCSV()
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to serialize CSV")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="sleep.csv"`)
		c.Data(200, "text/csv; charset=utf-8", data)
	}
}

// PostExport writes the CSV to the configured export path and returns
// where it went. A write failure fails only this call.
func PostExport(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := app.ExportPath()
		if err := app.Sleep().ExportCSVFile(path); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to write CSV export")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"path": path})
	}
}
