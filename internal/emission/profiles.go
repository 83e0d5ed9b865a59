package emission

// Category groups vehicle profiles by the kind of vehicle.
type Category string

const (
	CategoryCar        Category = "car"
	CategoryMotorcycle Category = "motorcycle"
	CategoryBus        Category = "bus"
)

// ProviderMapping is the vehicle/fuel shape the remote estimation
// endpoint understands.
type ProviderMapping struct {
	VehicleType string
	FuelType    string
	Size        string
}

// VehicleProfile is immutable reference data describing one vehicle subtype.
type VehicleProfile struct {
	ID          string
	DisplayName string
	Description string
	Category    Category

	// FactorKgPerKm is the base emission factor used by the local model.
	FactorKgPerKm float64

	// Electric marks battery-powered profiles (renewable-mix adjustment).
	Electric bool

	// Mapping is forwarded to the remote estimation endpoint.
	Mapping ProviderMapping
}

// vehicleProfiles is the fixed profile table. IDs are unique within their
// category and factors are a design contract other components rely on.
var vehicleProfiles = []VehicleProfile{
	{ID: "petrol_small", DisplayName: "Petrol - Small Car", Description: "Hatchback, compact car", Category: CategoryCar, FactorKgPerKm: 0.120, Mapping: ProviderMapping{"car", "petrol", "small"}},
	{ID: "petrol_medium", DisplayName: "Petrol - Medium Car", Description: "Sedan, SUV", Category: CategoryCar, FactorKgPerKm: 0.192, Mapping: ProviderMapping{"car", "petrol", "medium"}},
	{ID: "petrol_large", DisplayName: "Petrol - Large Car", Description: "Large SUV, luxury car", Category: CategoryCar, FactorKgPerKm: 0.250, Mapping: ProviderMapping{"car", "petrol", "large"}},
	{ID: "diesel_small", DisplayName: "Diesel - Small Car", Description: "Diesel hatchback", Category: CategoryCar, FactorKgPerKm: 0.110, Mapping: ProviderMapping{"car", "diesel", "small"}},
	{ID: "diesel_medium", DisplayName: "Diesel - Medium Car", Description: "Diesel sedan, SUV", Category: CategoryCar, FactorKgPerKm: 0.170, Mapping: ProviderMapping{"car", "diesel", "medium"}},
	{ID: "diesel_large", DisplayName: "Diesel - Large Car", Description: "Large diesel SUV", Category: CategoryCar, FactorKgPerKm: 0.220, Mapping: ProviderMapping{"car", "diesel", "large"}},
	{ID: "hybrid", DisplayName: "Hybrid Car", Description: "Petrol-electric hybrid", Category: CategoryCar, FactorKgPerKm: 0.120, Mapping: ProviderMapping{"car", "hybrid", "medium"}},
	{ID: "electric", DisplayName: "Electric Car", Description: "Battery electric vehicle", Category: CategoryCar, FactorKgPerKm: 0.053, Electric: true, Mapping: ProviderMapping{"car", "electric", "medium"}},

	{ID: "petrol_scooter", DisplayName: "Petrol Scooter", Description: "100-150cc scooter", Category: CategoryMotorcycle, FactorKgPerKm: 0.045, Mapping: ProviderMapping{"motorcycle", "petrol", "small"}},
	{ID: "petrol_motorcycle", DisplayName: "Petrol Motorcycle", Description: "150cc+ motorcycle", Category: CategoryMotorcycle, FactorKgPerKm: 0.103, Mapping: ProviderMapping{"motorcycle", "petrol", "medium"}},
	{ID: "electric_scooter", DisplayName: "Electric Scooter", Description: "Electric scooter", Category: CategoryMotorcycle, FactorKgPerKm: 0.020, Electric: true, Mapping: ProviderMapping{"motorcycle", "electric", "small"}},

	{ID: "city_bus", DisplayName: "City Bus", Description: "Urban public bus", Category: CategoryBus, FactorKgPerKm: 0.089, Mapping: ProviderMapping{"bus", "diesel", "large"}},
	{ID: "intercity_bus", DisplayName: "Intercity Bus", Description: "Long-distance bus", Category: CategoryBus, FactorKgPerKm: 0.070, Mapping: ProviderMapping{"bus", "diesel", "large"}},
	{ID: "electric_bus", DisplayName: "Electric Bus", Description: "Electric public bus", Category: CategoryBus, FactorKgPerKm: 0.030, Electric: true, Mapping: ProviderMapping{"bus", "electric", "large"}},
}

// profileIndex maps profile IDs to table entries.
var profileIndex = func() map[string]*VehicleProfile {
	idx := make(map[string]*VehicleProfile, len(vehicleProfiles))
	for i := range vehicleProfiles {
		idx[vehicleProfiles[i].ID] = &vehicleProfiles[i]
	}
	return idx
}()

// modeMappings are the provider mappings used when no vehicle profile is given.
var modeMappings = map[Mode]ProviderMapping{
	ModeDriving:    {"car", "petrol", "medium"},
	ModeTransit:    {"bus", "diesel", "large"},
	ModeBicycling:  {"bicycle", "none", "small"},
	ModeWalking:    {"walking", "none", "small"},
	ModeMotorcycle: {"motorcycle", "petrol", "medium"},
	ModeBus:        {"bus", "diesel", "large"},
}

// Profiles returns the full vehicle profile table.
func Profiles() []VehicleProfile {
	out := make([]VehicleProfile, len(vehicleProfiles))
	copy(out, vehicleProfiles)
	return out
}

// ProfilesForCategory returns the profiles in the given category, in table order.
func ProfilesForCategory(c Category) []VehicleProfile {
	var out []VehicleProfile
	for _, p := range vehicleProfiles {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// LookupProfile returns the profile with the given ID, or false if unknown.
func LookupProfile(id string) (VehicleProfile, bool) {
	p, ok := profileIndex[id]
	if !ok {
		return VehicleProfile{}, false
	}
	return *p, true
}

// MappingFor resolves the provider mapping for a vehicle/mode pair,
// preferring the vehicle profile and falling back to the mode. An unknown
// mode resolves to the driving default.
func MappingFor(vehicleProfileID string, mode Mode) ProviderMapping {
	if p, ok := profileIndex[vehicleProfileID]; ok {
		return p.Mapping
	}
	if m, ok := modeMappings[mode]; ok {
		return m
	}
	return modeMappings[ModeDriving]
}
