package trip

import (
	"sort"
	"time"

	"github.com/greenroute/greenroute/internal/api/models"
	"github.com/greenroute/greenroute/internal/emission"
)

// Summarize aggregates a user's trips into a carbon summary. Figures come
// from each trip's selected-route snapshot and its emission savings.
// Cancelled trips are excluded from every figure. The current-month block
// covers the calendar month containing now, keyed by the trip's taken-at
// date.
func Summarize(trips []*Trip, now time.Time) *models.CarbonSummary {
	summary := &models.CarbonSummary{
		ByMode:      []models.ModeSummary{},
		GeneratedAt: models.Timestamp(now),
	}
	summary.CurrentMonth.Month = now.Format("2006-01")

	byMode := make(map[emission.Mode]*models.ModeSummary)

	var scoreTotal int
	for _, t := range trips {
		if t.Status == StatusCancelled {
			continue
		}

		summary.TotalTrips++
		summary.TotalDistanceMeters += t.SelectedRoute.DistanceMeters
		summary.TotalEmissionKg += t.SelectedRoute.EmissionKg
		summary.TotalSavingsKg += t.Savings.AmountKg
		scoreTotal += t.SelectedRoute.EcoScore

		if t.TakenAt.Year() == now.Year() && t.TakenAt.Month() == now.Month() {
			summary.CurrentMonth.Trips++
			summary.CurrentMonth.DistanceMeters += t.SelectedRoute.DistanceMeters
			summary.CurrentMonth.EmissionKg += t.SelectedRoute.EmissionKg
			summary.CurrentMonth.SavingsKg += t.Savings.AmountKg
		}

		m := byMode[t.Mode]
		if m == nil {
			m = &models.ModeSummary{Mode: models.Mode(t.Mode)}
			byMode[t.Mode] = m
		}
		m.Trips++
		m.DistanceMeters += t.SelectedRoute.DistanceMeters
		m.EmissionKg += t.SelectedRoute.EmissionKg
		m.SavingsKg += t.Savings.AmountKg
	}

	if summary.TotalTrips > 0 {
		summary.AverageEcoScore = float64(scoreTotal) / float64(summary.TotalTrips)
	}

	for _, m := range byMode {
		summary.ByMode = append(summary.ByMode, *m)
	}
	sort.Slice(summary.ByMode, func(i, j int) bool {
		return summary.ByMode[i].Mode < summary.ByMode[j].Mode
	})

	return summary
}
