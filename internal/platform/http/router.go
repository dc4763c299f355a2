package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stadslab/heat-readiness-map/apps/api/internal/business/dataset"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/colormap"
	"github.com/stadslab/heat-readiness-map/apps/api/pkg/model"
)

// Router wires HTTP handlers.
type Router struct {
	data     *dataset.Service
	regions  []model.Region
	defaults model.Criteria
	origins  string
}

func NewRouter(data *dataset.Service, regionList []model.Region, defaults model.Criteria, allowedOrigins string) *gin.Engine {
	r := &Router{
		data:     data,
		regions:  regionList,
		defaults: defaults,
		origins:  allowedOrigins,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/buildings", r.listBuildings)
		api.GET("/buildings/detail", r.buildingDetail)
		api.GET("/neighborhoods", r.listNeighborhoods)
		api.GET("/search", r.searchAddresses)
		api.GET("/stats", r.getStats)
		api.POST("/refresh", r.refresh)
	}

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

// scoredBuilding decorates the minimal view with the score for the requested
// criteria and the matching heat ramp color.
type scoredBuilding struct {
	model.Building
	Score float64 `json:"score"`
	Color string  `json:"color"`
}

func (r *Router) listBuildings(c *gin.Context) {
	snap, err := r.data.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	criteria, err := r.criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weightSum := criteria.EnergyWeight + criteria.YearWeight + criteria.BusyRoadWeight
	buildings := snap.Buildings()
	items := make([]scoredBuilding, 0, len(buildings))
	for _, b := range buildings {
		score := dataset.Score(b, criteria)
		norm := score
		if weightSum > 0 {
			norm = score / weightSum
		}
		items = append(items, scoredBuilding{
			Building: b,
			Score:    score,
			Color:    colormap.Hex(norm),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"total":      len(items),
		"snapshotId": snap.Stats().SnapshotID,
	})
}

func (r *Router) buildingDetail(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	snap, err := r.data.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	// Unknown keys are "no data", not errors.
	records := snap.Details(key)
	if records == nil {
		records = []model.AddressRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": records,
		"total": len(records),
	})
}

func (r *Router) listNeighborhoods(c *gin.Context) {
	snap, err := r.data.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	criteria, err := r.criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stats := dataset.AggregateByNeighborhood(snap.Buildings(), criteria, r.regions)
	c.JSON(http.StatusOK, gin.H{
		"items": stats,
		"total": len(stats),
	})
}

func (r *Router) searchAddresses(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	snap, err := r.data.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	matches := snap.Search(q, limit)
	if matches == nil {
		matches = []model.AddressRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": matches,
		"total": len(matches),
	})
}

func (r *Router) getStats(c *gin.Context) {
	snap, err := r.data.Snapshot()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap.Stats())
}

func (r *Router) refresh(c *gin.Context) {
	stats, err := r.data.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// criteriaFromQuery overlays query parameters on the configured defaults.
// Weight sums above 1 are accepted; the score simply exceeds the canonical
// [0,1] range and the frontend is expected to keep its sliders in check.
func (r *Router) criteriaFromQuery(c *gin.Context) (model.Criteria, error) {
	criteria := r.defaults

	criteria.EnergyOp = c.DefaultQuery("energyOp", criteria.EnergyOp)
	criteria.EnergyLabel = c.DefaultQuery("energyLabel", criteria.EnergyLabel)
	criteria.YearOp = c.DefaultQuery("yearOp", criteria.YearOp)

	var err error
	if criteria.EnergyWeight, err = floatQuery(c, "energyWeight", criteria.EnergyWeight); err != nil {
		return model.Criteria{}, err
	}
	if criteria.YearWeight, err = floatQuery(c, "yearWeight", criteria.YearWeight); err != nil {
		return model.Criteria{}, err
	}
	if criteria.BusyRoadWeight, err = floatQuery(c, "busyRoadWeight", criteria.BusyRoadWeight); err != nil {
		return model.Criteria{}, err
	}
	if v := c.Query("yearValue"); v != "" {
		criteria.YearValue, err = strconv.Atoi(v)
		if err != nil {
			return model.Criteria{}, err
		}
	}

	if err := dataset.ValidateCriteria(criteria); err != nil {
		return model.Criteria{}, err
	}
	return criteria, nil
}

func floatQuery(c *gin.Context, key string, defaultVal float64) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(v, 64)
}
