package delivery

import "time"

type Carrier string

const (
	CarrierPickup     Carrier = "pickup"
	CarrierNovaPoshta Carrier = "novaposhta"
)

func (c Carrier) IsValid() bool {
	switch c {
	case CarrierPickup, CarrierNovaPoshta:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending            Status = "pending"
	StatusCreatedWithCarrier Status = "created_with_carrier"
	StatusFailed             Status = "failed"
)

type Delivery struct {
	ID             int64
	OrderID        int64
	Carrier        Carrier
	PointRef       string
	RecipientName  string
	RecipientPhone string
	TrackingNumber string
	Status         Status
	CreatedAt      time.Time
}

// Selection is the carrier destination chosen at checkout time. PointRef
// is the carrier-assigned external id of a pickup point or office.
type Selection struct {
	Carrier  Carrier
	PointRef string
}

type Contact struct {
	Name  string
	Phone string
}
