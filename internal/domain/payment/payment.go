package payment

import "time"

type Provider string

const (
	ProviderLiqpay   Provider = "liqpay"
	ProviderFondy    Provider = "fondy"
	ProviderMonobank Provider = "monobank"
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderLiqpay, ProviderFondy, ProviderMonobank:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSucceeded, StatusFailed, StatusExpired:
		return true
	default:
		return false
	}
}

// Terminal statuses never transition again; duplicate callbacks against
// them are acknowledged without side effects.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusExpired
}

type Payment struct {
	ID          int64
	OrderID     int64
	Provider    Provider
	ExternalRef string
	Amount      float64
	Currency    string
	Status      Status
	RawCallback []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is the provider-specific checkout payload returned to the
// frontend verbatim; Payload fields are whatever the provider expects.
type Session struct {
	Provider    Provider
	ExternalRef string
	CheckoutURL string
	Payload     map[string]string
}

// Callback is a provider notification normalized into the shared status
// vocabulary.
type Callback struct {
	ExternalRef string
	Status      Status
	Amount      float64
}
