package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nrasaily/SleepSentinelPro/internal"
	"github.com/nrasaily/SleepSentinelPro/internal/service"
)

// NightView is a NightSummary plus the schedule flag derived from the
// user's settings.
type NightView struct {
	internal.NightSummary
	OnTarget *bool `json:"on_target,omitempty"`
}

func GetNights(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sleep := app.Sleep()
		settings := sleep.Settings()
		nights := sleep.Nights()

		views := make([]NightView, len(nights))
		for i, n := range nights {
			views[i] = NightView{
				NightSummary: n,
				OnTarget:     service.MidpointOnTarget(n, settings, sleep.Location()),
			}
		}
		HandleSuccess(c, app.Logger(), views, map[string]any{"count": len(views)})
	}
}

func GetStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Sleep().Status(), nil)
	}
}

// PostDemo loads the synthetic dataset, replacing the working set.
func PostDemo(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := app.Sleep().LoadDemo(c.Request.Context(), time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to load demo data")
			return
		}
		app.Logger().Infof("demo data loaded: %d nights", count)
		HandleSuccess(c, app.Logger(), nil, map[string]any{"nights": count, "using_demo": true})
	}
}

// PostSync runs one anchored fetch against the provider. Unauthorized
// is not a provider failure: the caller is told to use the demo path.
func PostSync(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sleep := app.Sleep()
		state := sleep.State()
		if !state.Authorized {
			HandleError(c, app.Logger(), errors.New("provider access not authorized"),
				409, "Sync unavailable, load demo data instead")
			return
		}
		p := app.Provider()
		if p == nil {
			HandleError(c, app.Logger(), errors.New("no provider configured"),
				409, "Sync unavailable, load demo data instead")
			return
		}
		batch, err := p.Fetch(c.Request.Context(), state.Anchor)
		if err != nil {
			HandleError(c, app.Logger(), err, 502, "Provider query failed")
			return
		}
		count := sleep.ApplyBatch(c.Request.Context(), batch)
		HandleSuccess(c, app.Logger(), nil, map[string]any{
			"segments": len(batch.Segments), "nights": count, "anchor": batch.Anchor,
		})
	}
}

// PostSegments ingests a raw segment batch pushed by an external
// adapter: the (segments, newAnchor) event shape.
func PostSegments(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SegmentBatchRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSegmentBatchRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}
		batch, err := service.ParseSegmentBatch(&body)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Malformed segment batch")
			return
		}
		count := app.Sleep().ApplyBatch(c.Request.Context(), batch)
		HandleSuccess(c, app.Logger(), nil, map[string]any{
			"segments": len(batch.Segments), "nights": count,
		})
	}
}

type AuthorizationRequest struct {
	Authorized bool `json:"authorized"`
}

// PutAuthorization records the caller's authorization signal. While
// false, sync is refused and demo data keeps the service usable.
func PutAuthorization(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body AuthorizationRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		app.Sleep().SetAuthorized(c.Request.Context(), body.Authorized)
		HandleSuccess(c, app.Logger(), nil, map[string]any{"authorized": body.Authorized})
	}
}
