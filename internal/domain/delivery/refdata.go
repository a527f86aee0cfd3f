package delivery

// Carrier reference data cached locally so checkout-time lookups never hit
// the carrier network. Single writer: the background synchronizer.

type Region struct {
	ID          int64
	Carrier     Carrier
	ExternalRef string
	Name        string
}

type City struct {
	ID          int64
	Carrier     Carrier
	ExternalRef string
	RegionRef   string
	Name        string
}

type Point struct {
	ID          int64
	Carrier     Carrier
	ExternalRef string
	CityRef     string
	Name        string
	Address     string
	Phone       string
	IsActive    bool
}
