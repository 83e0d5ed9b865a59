package emission

// modeFactors are kg CO2 per km fallbacks used when no vehicle profile
// is given. The driving value doubles as the default for unmapped input.
var modeFactors = map[Mode]float64{
	ModeDriving:    0.192, // average petrol car
	ModeTransit:    0.041, // bus/train average
	ModeBicycling:  0.004,
	ModeWalking:    0.002,
	ModeMotorcycle: 0.103,
	ModeBus:        0.089,
}

// defaultFactor is the average-car factor applied when neither the
// vehicle profile nor the mode is known.
const defaultFactor = 0.192

// Distance adjustment thresholds, in km.
const (
	shortTripKm = 5  // below this, cold-start penalty applies
	longTripKm  = 50 // above this, highway efficiency applies
)

// FactorFor resolves the base emission factor for a vehicle/mode pair.
// Lookup order: vehicle profile, then mode, then the average-car default.
func FactorFor(vehicleProfileID string, mode Mode) float64 {
	if p, ok := profileIndex[vehicleProfileID]; ok {
		return p.FactorKgPerKm
	}
	if f, ok := modeFactors[mode]; ok {
		return f
	}
	return defaultFactor
}

// distanceAdjustment returns the multiplicative factor for trip length.
func distanceAdjustment(distanceKm float64) float64 {
	switch {
	case distanceKm < shortTripKm:
		return 1.2 // cold-start penalty
	case distanceKm > longTripKm:
		return 0.9 // highway efficiency
	default:
		return 1.0
	}
}

// occupancyAdjustment returns the multiplicative factor for traffic and
// occupancy conditions. Driving and transit adjustments take precedence;
// otherwise electric vehicle profiles get the renewable-mix discount.
func occupancyAdjustment(mode Mode, vehicleProfileID string) float64 {
	switch mode {
	case ModeDriving:
		return 1.1 // assumed congestion
	case ModeTransit:
		return 0.7 // assumed partial occupancy
	}
	if p, ok := profileIndex[vehicleProfileID]; ok && p.Electric {
		return 0.8 // assumed partial renewable mix
	}
	return 1.0
}

// EstimateLocal computes an emission estimate from the fixed factor table.
// It is a pure function: identical inputs yield identical outputs.
func EstimateLocal(distanceMeters float64, mode Mode, vehicleProfileID string) Estimate {
	distanceKm := distanceMeters / 1000
	factor := FactorFor(vehicleProfileID, mode)
	factor *= distanceAdjustment(distanceKm)
	factor *= occupancyAdjustment(mode, vehicleProfileID)

	return Estimate{
		EmissionKg: distanceKm * factor,
		Source:     SourceLocal,
	}
}
