package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/VishalDET/mcflassets-sub000/models"
	"github.com/VishalDET/mcflassets-sub000/reports"
	"github.com/VishalDET/mcflassets-sub000/utils"
)

const dashboardCacheKey = "dashboard:snapshot"

// DashboardOverview aggregates the non-deleted asset snapshot for the
// landing dashboard. Everything here is derived client-side from one list
// query; the store does no aggregation.
type DashboardOverview struct {
	TotalAssets   int                     `json:"totalAssets"`
	AssignedCount int                     `json:"assignedCount"`
	StatusCounts  map[string]int          `json:"statusCounts"`
	TotalWorth    string                  `json:"totalWorth"`
	Warranty      reports.WarrantyBuckets `json:"warranty"`
	Ages          reports.AgeBuckets      `json:"ages"`
	Growth        []reports.GrowthPoint   `json:"growth"`
	TopCompanies  []reports.CompanyCount  `json:"topCompanies"`
	GeneratedAt   time.Time               `json:"generatedAt"`
}

func GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var cached DashboardOverview
	if dashCache.GetJSON(ctx, dashboardCacheKey, &cached) {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	assets, err := svc.ListActiveAssets(ctx)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	now := time.Now().UTC()
	overview := buildOverview(assets, now)

	dashCache.SetJSON(ctx, dashboardCacheKey, overview)
	utils.RespondWithJSON(w, http.StatusOK, overview)
}

func buildOverview(assets []models.Asset, now time.Time) DashboardOverview {
	counts := reports.StatusCounts(assets)
	return DashboardOverview{
		TotalAssets:   len(assets),
		AssignedCount: counts[models.StatusAssigned],
		StatusCounts:  counts,
		TotalWorth:    reports.TotalWorth(assets).String(),
		Warranty:      reports.WarrantyAlerts(assets, now),
		Ages:          reports.AssetAges(assets, now),
		Growth:        reports.GrowthSeries(assets),
		TopCompanies:  reports.TopCompanies(assets, 5),
		GeneratedAt:   now,
	}
}

// GetWarrantyAlerts returns just the expiry buckets, uncached, for the
// alerts panel.
func GetWarrantyAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assets, err := svc.ListActiveAssets(ctx)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, reports.WarrantyAlerts(assets, time.Now().UTC()))
}
