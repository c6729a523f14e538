// Shared handler plumbing: the Handlers aggregate and request identity.
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dperalta/go-recsys-backend/internal/mlclient"
	"github.com/dperalta/go-recsys-backend/internal/search"
	"github.com/dperalta/go-recsys-backend/internal/services"
)

// Handlers bundles the service dependencies for all endpoints. Construct with
// New and register the methods on the router.
type Handlers struct {
	interactions *services.InteractionService
	recs         *services.RecommendationService
	retrain      *services.RetrainService
	ml           *mlclient.Client
	idx          search.Index
}

// New wires the handler set. idx may be nil when the search route is not
// mounted.
func New(
	interactions *services.InteractionService,
	recs *services.RecommendationService,
	retrain *services.RetrainService,
	ml *mlclient.Client,
	idx search.Index,
) *Handlers {
	return &Handlers{
		interactions: interactions,
		recs:         recs,
		retrain:      retrain,
		ml:           ml,
		idx:          idx,
	}
}

// userID resolves the acting user: context (set by auth middleware when
// present) → X-User-ID header → demo fallback. It never touches c.Request if
// it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}
