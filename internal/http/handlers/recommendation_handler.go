// Recommendation HTTP handlers.
//
// This file exposes the read path for personalized recommendations, the
// retrain trigger, and the thin proxies over the external service's stats and
// health endpoints:
//   - GET  /recommendations
//   - POST /recommendations/retrain
//   - GET  /api/recommendations/stats
//   - GET  /api/recommendations/health
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dperalta/go-recsys-backend/internal/http/middleware"
	"github.com/dperalta/go-recsys-backend/internal/i18n"
	"github.com/dperalta/go-recsys-backend/internal/mlclient"
	"github.com/dperalta/go-recsys-backend/internal/poll"
	"github.com/dperalta/go-recsys-backend/internal/services"
	"github.com/dperalta/go-recsys-backend/internal/utils"
)

// RetrainRequest is the JSON payload for triggering a model retrain. Both
// hyperparameters are optional; the service's defaults apply when omitted.
type RetrainRequest struct {
	MaxComponents *int `json:"max_components" binding:"omitempty,min=1,max=50" example:"20"`
	MaxIter       *int `json:"max_iter" binding:"omitempty,min=1,max=100" example:"15"`
}

// GetRecommendations godoc
// @ID          getRecommendations
// @Summary     Get personalized recommendations
// @Description Returns ranked catalog items for the user. When the external service fails, the response carries an empty list and a localized error message instead of a transport error.
// @Tags        Recommendations
// @Produce     json
//
// @Param       X-User-ID       header  string  false "User ID (demo header)"  example(user123)
// @Param       Accept-Language header  string  false "Preferred language for messages"  example(es)
// @Param       top_n           query   int     false "Number of recommendations (clamped to [1,20])" default(5)
//
// @Success     200  {object}  services.RecommendationPage
// @Failure     500  {object}  handlers.ErrorResponse "Internal server error"
// @Router      /recommendations [get]
func (h *Handlers) GetRecommendations(c *gin.Context) {
	topN := utils.AtoiDefault(c.Query("top_n"), mlclient.DefaultTopN)

	page, err := h.recs.GetForUser(c.Request.Context(), userID(c), topN, c.GetHeader("Accept-Language"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load recommendations")
		return
	}
	ok(c, http.StatusOK, page)
}

// TriggerRetrain godoc
// @ID          triggerRetrain
// @Summary     Trigger a model retrain
// @Description Validates the optional hyperparameters and enqueues an asynchronous retrain job. The response acknowledges queuing only; completion is observed via the stats endpoint. Pass watch=true to also start a server-side completion watcher.
// @Tags        Recommendations
// @Accept      json
// @Produce     json
//
// @Param       Accept-Language header  string  false "Preferred language for messages" example(es)
// @Param       watch           query   bool    false "Start a completion watcher"      default(false)
// @Param       body            body    handlers.RetrainRequest false "Optional hyperparameters"
//
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse "Invalid hyperparameters"
// @Failure     500  {object}  handlers.ErrorResponse "Enqueue failed"
// @Router      /recommendations/retrain [post]
func (h *Handlers) TriggerRetrain(c *gin.Context) {
	var req RetrainRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeValidation, "max_components must be in [1,50] and max_iter in [1,100]")
			return
		}
	}

	p := i18n.Printer(c.GetHeader("Accept-Language"))

	job, err := h.retrain.Enqueue(c.Request.Context(), req.MaxComponents, req.MaxIter)
	if err != nil {
		switch err {
		case services.ErrInvalidRetrainParams:
			fail(c, http.StatusBadRequest, ErrCodeValidation, "max_components must be in [1,50] and max_iter in [1,100]")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRetrainFailed, p.Sprintf(i18n.KeyRetrainEnqueueFail))
		}
		return
	}

	if c.Query("watch") == "true" {
		h.startWatcher(c, job.ID)
	}

	ok(c, http.StatusOK, gin.H{
		"message": p.Sprintf(i18n.KeyRetrainQueued),
		"status":  "queued",
		"job_id":  job.ID,
	})
}

// startWatcher spawns a detached completion watcher for a just-queued job. The
// watcher outlives the request; its lifetime is bounded by its own attempt
// budget plus a safety deadline, not by the request context.
func (h *Handlers) startWatcher(c *gin.Context, jobID string) {
	lg := middleware.LoggerFrom(c).With().Str("job_id", jobID).Logger()
	w := h.retrain.NewWatcher(func(outcome poll.Outcome) {
		lg.Info().Str("outcome", string(outcome)).Msg("retrain watch finished")
	})
	w.Log = lg

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		w.Run(ctx)
	}()
}

// Stats godoc
// @ID          recommendationStats
// @Summary     Model statistics
// @Description Proxies the external service's statistics payload unmodified.
// @Tags        Recommendations
// @Produce     json
//
// @Success     200  {object}  map[string]any
// @Failure     502  {object}  map[string]any "Service error"
// @Failure     503  {object}  map[string]any "Service unreachable"
// @Router      /api/recommendations/stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	st, err := h.ml.Stats(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		msg := err.Error()
		if f, ok := mlclient.AsFailure(err); ok {
			msg = f.Message
			if f.Kind == mlclient.FailureUnreachable {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}
	ok(c, http.StatusOK, gin.H{"success": true, "data": st.Raw})
}

// MLHealth godoc
// @ID          recommendationHealth
// @Summary     External service health
// @Description Probes the external recommendation service and reports healthy, unhealthy or unreachable. Never returns a 5xx for our own backend; the status code mirrors the probe outcome.
// @Tags        Recommendations
// @Produce     json
//
// @Success     200  {object}  map[string]any "Service healthy"
// @Failure     502  {object}  map[string]any "Service unhealthy"
// @Failure     503  {object}  map[string]any "Service unreachable"
// @Router      /api/recommendations/health [get]
func (h *Handlers) MLHealth(c *gin.Context) {
	res := h.ml.Health(c.Request.Context())
	switch res.State {
	case mlclient.Healthy:
		ok(c, http.StatusOK, gin.H{"status": string(res.State), "service": res.Payload})
	case mlclient.Unhealthy:
		c.JSON(http.StatusBadGateway, gin.H{"status": string(res.State), "detail": res.Detail, "upstream_status": res.Status})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": string(res.State), "detail": res.Detail})
	}
}
