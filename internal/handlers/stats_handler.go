package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"walletwiz/internal/cache"
	apperrors "walletwiz/internal/errors"
	"walletwiz/internal/repository"
	"walletwiz/internal/stats"
)

// StatsHandler serves the derived-statistics endpoints feeding the dashboard
// cards and charts. Responses are read through the stats cache when one is
// configured; repository mutations invalidate it.
type StatsHandler struct {
	repo  *repository.Repository
	cache *cache.StatsCache
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(repo *repository.Repository, statsCache *cache.StatsCache) *StatsHandler {
	return &StatsHandler{repo: repo, cache: statsCache}
}

// GetTotals returns total income, total expense, and their balance.
func (h *StatsHandler) GetTotals(c *gin.Context) {
	h.serve(c, cache.KeyTotals, func() interface{} {
		return stats.ComputeTotals(h.repo.All())
	})
}

// GetMonthlyAverages returns the per-month income and expense averages.
func (h *StatsHandler) GetMonthlyAverages(c *gin.Context) {
	h.serve(c, cache.KeyMonthlyAverages, func() interface{} {
		return stats.MonthlyAverages(h.repo.All())
	})
}

// GetMonthlySeries returns the chronological income-vs-expense series.
func (h *StatsHandler) GetMonthlySeries(c *gin.Context) {
	h.serve(c, cache.KeyMonthlySeries, func() interface{} {
		return gin.H{"series": stats.MonthlySeries(h.repo.All())}
	})
}

// GetCategoryBreakdown returns the expense sums per category.
func (h *StatsHandler) GetCategoryBreakdown(c *gin.Context) {
	h.serve(c, cache.KeyCategoryBreakdown, func() interface{} {
		return gin.H{"breakdown": stats.CategoryBreakdown(h.repo.All())}
	})
}

// serve answers from the cache when possible, otherwise computes the
// payload, caches it, and responds.
func (h *StatsHandler) serve(c *gin.Context, key string, compute func() interface{}) {
	ctx := c.Request.Context()

	if payload, ok := h.cache.Get(ctx, key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	payload, err := json.Marshal(compute())
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.cache.Set(ctx, key, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
