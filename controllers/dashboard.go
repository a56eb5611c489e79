package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmpro-backend/models"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

type SalesKPIs struct {
	TotalOpportunities int     `json:"total_opportunities"`
	OpenOpportunities  int     `json:"open_opportunities"`
	WonOpportunities   int     `json:"won_opportunities"`
	TotalRevenueWon    float64 `json:"total_revenue_won"`
}

type CustomerKPIs struct {
	TotalCustomers         int `json:"total_customers"`
	NewCustomersLast30Days int `json:"new_customers_last_30_days"`
}

type TicketMetrics struct {
	TotalResolved      int       `json:"total_resolved"`
	AvgResolutionHours float64   `json:"avg_resolution_hours"`
	TrendLabels        []string  `json:"trend_labels"`
	TrendValues        []float64 `json:"trend_values"`
}

// DashboardController serves the KPI endpoints.
type DashboardController struct {
	Store services.CRMStore
}

// GetSalesKPIs calculates pipeline counts and won revenue from the
// opportunities collection.
func (ctl *DashboardController) GetSalesKPIs(c *gin.Context) {
	opportunities, err := ctl.Store.ListOpportunities(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Error calculating sales KPIs")
		return
	}

	kpis := SalesKPIs{}
	totalLost := 0
	for _, opportunity := range opportunities {
		kpis.TotalOpportunities++
		switch opportunity.Stage {
		case models.StageWon:
			kpis.WonOpportunities++
			kpis.TotalRevenueWon += opportunity.Amount
		case models.StageLost:
			totalLost++
		}
	}

	kpis.OpenOpportunities = kpis.TotalOpportunities - (kpis.WonOpportunities + totalLost)
	kpis.TotalRevenueWon = math.Round(kpis.TotalRevenueWon*100) / 100

	c.JSON(http.StatusOK, kpis)
}

// GetCustomerKPIs calculates retention metrics from the customers collection.
func (ctl *DashboardController) GetCustomerKPIs(c *gin.Context) {
	customers, err := ctl.Store.ListCustomers(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Error calculating customer KPIs")
		return
	}

	kpis := CustomerKPIs{}
	thirtyDaysAgo := time.Now().UTC().AddDate(0, 0, -30)
	for _, customer := range customers {
		kpis.TotalCustomers++
		if !customer.CreatedAt.IsZero() && !customer.CreatedAt.Before(thirtyDaysAgo) {
			kpis.NewCustomersLast30Days++
		}
	}

	c.JSON(http.StatusOK, kpis)
}

// GetTicketMetrics calculates the average resolution time and a four-week
// resolution trend from closed tickets.
func (ctl *DashboardController) GetTicketMetrics(c *gin.Context) {
	tickets, err := ctl.Store.ListTickets(c.Request.Context(), 0)
	if err != nil {
		respondStoreError(c, err, "Error calculating ticket metrics")
		return
	}

	today := utils.BeginningOfDay(time.Now().UTC())
	weeklyBuckets := make([][]float64, 4)

	totalResolved := 0
	totalResolutionSeconds := 0.0
	for _, ticket := range tickets {
		if ticket.Status != models.TicketStatusClosed || ticket.ResolvedAt == nil || ticket.CreatedAt.IsZero() {
			continue
		}

		duration := ticket.ResolvedAt.Sub(ticket.CreatedAt)
		totalResolutionSeconds += duration.Seconds()
		totalResolved++

		// Bucket index 3 is the most recent week.
		daysAgo := utils.DaysBetween(utils.BeginningOfDay(*ticket.ResolvedAt), today)
		if daysAgo >= 0 && daysAgo < 28 {
			bucket := 3 - daysAgo/7
			weeklyBuckets[bucket] = append(weeklyBuckets[bucket], duration.Hours())
		}
	}

	metrics := TicketMetrics{
		TotalResolved: totalResolved,
		TrendLabels:   []string{"Week 1", "Week 2", "Week 3", "Week 4"},
		TrendValues:   make([]float64, 4),
	}
	if totalResolved > 0 {
		metrics.AvgResolutionHours = math.Round(totalResolutionSeconds/float64(totalResolved)/3600*10) / 10
	}
	for i, bucket := range weeklyBuckets {
		if len(bucket) == 0 {
			continue
		}
		sum := 0.0
		for _, hours := range bucket {
			sum += hours
		}
		metrics.TrendValues[i] = math.Round(sum/float64(len(bucket))*100) / 100
	}

	c.JSON(http.StatusOK, metrics)
}
