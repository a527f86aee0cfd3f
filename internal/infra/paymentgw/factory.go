package paymentgw

import (
	"example.com/ecom-backend/internal/domain/gateway"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const defaultCurrency = "UAH"

type Config struct {
	LiqpayPublicKey  string
	LiqpayPrivateKey string

	FondyMerchantID string
	FondySecret     string
	FondyBaseURL    string

	MonobankToken   string
	MonobankSecret  string
	MonobankBaseURL string
}

// Factory resolves a provider enum value to its gateway adapter. The
// registry is built once at process start; Resolve is a pure lookup.
type Factory struct {
	gateways map[dompayment.Provider]dompayment.Gateway
}

func NewFactory(cfg Config) *Factory {
	return &Factory{
		gateways: map[dompayment.Provider]dompayment.Gateway{
			dompayment.ProviderLiqpay:   NewLiqpayGateway(cfg.LiqpayPublicKey, cfg.LiqpayPrivateKey),
			dompayment.ProviderFondy:    NewFondyGateway(cfg.FondyMerchantID, cfg.FondySecret, cfg.FondyBaseURL),
			dompayment.ProviderMonobank: NewMonobankGateway(cfg.MonobankToken, cfg.MonobankSecret, cfg.MonobankBaseURL),
		},
	}
}

func (f *Factory) Resolve(provider dompayment.Provider) (dompayment.Gateway, error) {
	gw, ok := f.gateways[provider]
	if !ok {
		return nil, gateway.ErrUnsupported
	}
	return gw, nil
}
