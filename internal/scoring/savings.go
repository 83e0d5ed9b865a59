package scoring

// Savings describes how much CO2 a candidate avoids relative to the
// worst option in its comparison set.
type Savings struct {
	// Kg is the absolute saving in kilograms. Zero for the worst candidate.
	Kg float64

	// Percent is the saving as a share of the worst candidate's emission.
	// Zero when the worst candidate emits nothing.
	Percent float64
}

// Comparison summarizes a set of candidates.
type Comparison struct {
	MostEfficientIndex  int
	LeastEfficientIndex int

	// TotalSavingsKg is the emission gap between the least and most
	// efficient candidates.
	TotalSavingsKg float64

	// SavingsPercent is that gap as a share of the least efficient
	// candidate's emission. Zero when it emits nothing.
	SavingsPercent float64
}

// AnnotateSavings computes per-candidate savings relative to the highest
// emission in the set. Returns nil for an empty input.
func AnnotateSavings(emissionsKg []float64) []Savings {
	if len(emissionsKg) == 0 {
		return nil
	}

	worst := emissionsKg[0]
	for _, e := range emissionsKg[1:] {
		if e > worst {
			worst = e
		}
	}

	out := make([]Savings, len(emissionsKg))
	for i, e := range emissionsKg {
		s := Savings{Kg: worst - e}
		if worst > 0 {
			s.Percent = s.Kg / worst * 100
		}
		out[i] = s
	}
	return out
}

// Compare identifies the most and least efficient candidates by emission.
// Ties resolve to the earliest index. Returns nil for an empty input.
func Compare(emissionsKg []float64) *Comparison {
	if len(emissionsKg) == 0 {
		return nil
	}

	cmp := &Comparison{}
	for i, e := range emissionsKg {
		if e < emissionsKg[cmp.MostEfficientIndex] {
			cmp.MostEfficientIndex = i
		}
		if e > emissionsKg[cmp.LeastEfficientIndex] {
			cmp.LeastEfficientIndex = i
		}
	}

	worst := emissionsKg[cmp.LeastEfficientIndex]
	cmp.TotalSavingsKg = worst - emissionsKg[cmp.MostEfficientIndex]
	if worst > 0 {
		cmp.SavingsPercent = cmp.TotalSavingsKg / worst * 100
	}
	return cmp
}
