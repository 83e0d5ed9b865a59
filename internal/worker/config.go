// Package worker provides background job processing for GreenRoute.
package worker

import (
	"time"

	"github.com/greenroute/greenroute/internal/routing"
)

// RefreshTarget represents a metro area whose popular commute corridors
// are kept warm in the geocoding and routing caches.
type RefreshTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Corridors are the origin/destination pairs to refresh. Typically
	// the high-traffic commute corridors of the metro.
	Corridors []Corridor

	// Priority determines refresh order (lower = higher priority).
	Priority int
}

// Corridor is a free-text origin/destination pair.
type Corridor struct {
	Origin      string
	Destination string
}

// RefreshConfig holds configuration for the cache refresh job.
type RefreshConfig struct {
	// Targets are the metro areas to refresh.
	// If empty, uses DefaultRefreshTargets.
	Targets []RefreshTarget

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each corridor refresh.
	// Default: 30 seconds
	Timeout time.Duration

	// RefreshGeocoding enables geocoding cache warming.
	// Default: true
	RefreshGeocoding bool

	// RefreshRoutes enables directions cache warming.
	// Default: true
	RefreshRoutes bool

	// Profiles are the routing profiles warmed per corridor.
	// Default: driving only.
	Profiles []routing.RouteProfile
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Targets:          DefaultRefreshTargets(),
		Concurrency:      3,
		Timeout:          30 * time.Second,
		RefreshGeocoding: true,
		RefreshRoutes:    true,
		Profiles:         []routing.RouteProfile{routing.ProfileDriving},
	}
}

// DefaultRefreshTargets returns the default refresh targets for India.
// Focuses on the metros and tech corridors that dominate query volume.
func DefaultRefreshTargets() []RefreshTarget {
	return []RefreshTarget{
		{
			Name:     "Bangalore",
			Priority: 1,
			Corridors: []Corridor{
				{Origin: "Koramangala, Bangalore", Destination: "Whitefield, Bangalore"},
				{Origin: "Indiranagar, Bangalore", Destination: "Electronic City, Bangalore"},
				{Origin: "Majestic, Bangalore", Destination: "Manyata Tech Park, Bangalore"},
				{Origin: "HSR Layout, Bangalore", Destination: "Outer Ring Road, Bangalore"},
			},
		},
		{
			Name:     "Mumbai",
			Priority: 1,
			Corridors: []Corridor{
				{Origin: "Bandra, Mumbai", Destination: "Lower Parel, Mumbai"},
				{Origin: "Andheri, Mumbai", Destination: "BKC, Mumbai"},
				{Origin: "Thane", Destination: "Navi Mumbai"},
			},
		},
		{
			Name:     "Delhi NCR",
			Priority: 1,
			Corridors: []Corridor{
				{Origin: "Connaught Place, Delhi", Destination: "Cyber City, Gurugram"},
				{Origin: "Saket, Delhi", Destination: "Sector 62, Noida"},
				{Origin: "Dwarka, Delhi", Destination: "Aerocity, Delhi"},
			},
		},
		{
			Name:     "Hyderabad",
			Priority: 2,
			Corridors: []Corridor{
				{Origin: "Secunderabad", Destination: "HITEC City, Hyderabad"},
				{Origin: "Gachibowli, Hyderabad", Destination: "Banjara Hills, Hyderabad"},
			},
		},
		{
			Name:     "Chennai",
			Priority: 2,
			Corridors: []Corridor{
				{Origin: "T Nagar, Chennai", Destination: "Thoraipakkam, Chennai"},
				{Origin: "Guindy, Chennai", Destination: "Sholinganallur, Chennai"},
			},
		},
		{
			Name:     "Pune",
			Priority: 3,
			Corridors: []Corridor{
				{Origin: "Koregaon Park, Pune", Destination: "Hinjewadi, Pune"},
				{Origin: "Magarpatta, Pune", Destination: "Shivajinagar, Pune"},
			},
		},
	}
}

// AllCorridors returns all corridors from all targets, ordered by priority.
func (c RefreshConfig) AllCorridors() []Corridor {
	var corridors []Corridor
	for _, target := range c.Targets {
		corridors = append(corridors, target.Corridors...)
	}
	return corridors
}

// TotalCorridors returns the total number of corridors to refresh.
func (c RefreshConfig) TotalCorridors() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Corridors)
	}
	return total
}
