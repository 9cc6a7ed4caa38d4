package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/riverbed-labs/nwisfetch/services/api/db"
)

func (s *Server) handleListSites(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	sites, err := s.store.ListSites(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

func (s *Server) handleGetSite(c *gin.Context) {
	siteNo := c.Param("site_no")
	if siteNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_no is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	site, err := s.store.GetSite(ctx, siteNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if site == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"site": site})
}

func (s *Server) handleObservations(c *gin.Context) {
	siteNo := c.Param("site_no")
	if siteNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_no is required"})
		return
	}

	limit := s.cfg.DefaultLimit
	if limitStr := c.Query("last_n"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_n"})
			return
		}
		limit = parsed
	}

	var since *time.Time
	var until *time.Time

	if daysStr := c.Query("last_n_days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_n_days"})
			return
		}
		t := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
		since = &t
	}

	if startStr := c.Query("start"); startStr != "" {
		t, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start timestamp"})
			return
		}
		tt := t.UTC()
		since = &tt
	}

	if endStr := c.Query("end"); endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end timestamp"})
			return
		}
		tt := t.UTC()
		until = &tt
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	observations, err := s.store.FetchObservations(ctx, db.ObservationQuery{
		SiteNo: siteNo,
		Param:  c.Query("param"),
		Limit:  limit,
		Since:  since,
		Until:  until,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site_no":      siteNo,
		"count":        len(observations),
		"observations": observations,
	})
}

func (s *Server) handleLatest(c *gin.Context) {
	siteNo := c.Param("site_no")
	if siteNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_no is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	latest, err := s.store.LatestBySite(ctx, siteNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"site_no": siteNo, "observations": latest})
}
