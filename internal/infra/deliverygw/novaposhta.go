package deliverygw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	"example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
)

const (
	novaPoshtaDefaultBaseURL = "https://api.novaposhta.ua/v2.0/json/"
	novaPoshtaPageSize       = 500
)

// NovaPoshtaGateway talks to the Nova Poshta JSON API. Listing operations
// are served from the local reference cache; only shipment booking and the
// synchronizer fetches go over the network.
type NovaPoshtaGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
	refs    domdelivery.ReferenceRepository
}

func NewNovaPoshtaGateway(apiKey, baseURL string, refs domdelivery.ReferenceRepository) *NovaPoshtaGateway {
	if baseURL == "" {
		baseURL = novaPoshtaDefaultBaseURL
	}
	return &NovaPoshtaGateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		refs:    refs,
	}
}

func (g *NovaPoshtaGateway) Carrier() domdelivery.Carrier {
	return domdelivery.CarrierNovaPoshta
}

type novaPoshtaEnvelope struct {
	Success bool              `json:"success"`
	Data    []json.RawMessage `json:"data"`
	Errors  []string          `json:"errors"`
}

func (g *NovaPoshtaGateway) post(ctx context.Context, model, method string, props map[string]string) ([]json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"apiKey":           g.apiKey,
		"modelName":        model,
		"calledMethod":     method,
		"methodProperties": props,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, gateway.Wrap("novaposhta", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, gateway.Wrap("novaposhta", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, gateway.Wrap("novaposhta", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var env novaPoshtaEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, gateway.Wrap("novaposhta", err)
	}
	if !env.Success {
		return nil, gateway.Wrap("novaposhta", fmt.Errorf("%s.%s failed: %s", model, method, strings.Join(env.Errors, "; ")))
	}
	return env.Data, nil
}

// paged fetches all pages of a listing method until a short page is seen.
func (g *NovaPoshtaGateway) paged(ctx context.Context, model, method string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for page := 1; ; page++ {
		batch, err := g.post(ctx, model, method, map[string]string{
			"Limit": strconv.Itoa(novaPoshtaPageSize),
			"Page":  strconv.Itoa(page),
		})
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < novaPoshtaPageSize {
			break
		}
	}
	return all, nil
}

func (g *NovaPoshtaGateway) FetchRegions(ctx context.Context) ([]domdelivery.Region, error) {
	data, err := g.post(ctx, "AddressGeneral", "getAreas", map[string]string{})
	if err != nil {
		return nil, err
	}

	regions := make([]domdelivery.Region, 0, len(data))
	for _, raw := range data {
		var item struct {
			Ref         string `json:"Ref"`
			Description string `json:"Description"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || item.Ref == "" {
			continue
		}
		regions = append(regions, domdelivery.Region{
			Carrier:     domdelivery.CarrierNovaPoshta,
			ExternalRef: item.Ref,
			Name:        item.Description,
		})
	}
	return regions, nil
}

func (g *NovaPoshtaGateway) FetchCities(ctx context.Context) ([]domdelivery.City, error) {
	data, err := g.paged(ctx, "AddressGeneral", "getCities")
	if err != nil {
		return nil, err
	}

	cities := make([]domdelivery.City, 0, len(data))
	for _, raw := range data {
		var item struct {
			Ref         string `json:"Ref"`
			Description string `json:"Description"`
			Area        string `json:"Area"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || item.Ref == "" {
			continue
		}
		cities = append(cities, domdelivery.City{
			Carrier:     domdelivery.CarrierNovaPoshta,
			ExternalRef: item.Ref,
			RegionRef:   item.Area,
			Name:        item.Description,
		})
	}
	return cities, nil
}

func (g *NovaPoshtaGateway) FetchPoints(ctx context.Context) ([]domdelivery.Point, error) {
	data, err := g.paged(ctx, "AddressGeneral", "getWarehouses")
	if err != nil {
		return nil, err
	}

	points := make([]domdelivery.Point, 0, len(data))
	for _, raw := range data {
		var item struct {
			Ref          string `json:"Ref"`
			Description  string `json:"Description"`
			ShortAddress string `json:"ShortAddress"`
			CityRef      string `json:"CityRef"`
			Phone        string `json:"Phone"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || item.Ref == "" || item.CityRef == "" {
			continue
		}
		points = append(points, domdelivery.Point{
			Carrier:     domdelivery.CarrierNovaPoshta,
			ExternalRef: item.Ref,
			CityRef:     item.CityRef,
			Name:        item.Description,
			Address:     item.ShortAddress,
			Phone:       item.Phone,
			IsActive:    true,
		})
	}
	return points, nil
}

func (g *NovaPoshtaGateway) Regions(ctx context.Context) ([]domdelivery.Region, error) {
	return g.refs.Regions(ctx, domdelivery.CarrierNovaPoshta)
}

func (g *NovaPoshtaGateway) Cities(ctx context.Context, regionRef string) ([]domdelivery.City, error) {
	return g.refs.Cities(ctx, domdelivery.CarrierNovaPoshta, regionRef)
}

func (g *NovaPoshtaGateway) Points(ctx context.Context, cityRef string) ([]domdelivery.Point, error) {
	return g.refs.Points(ctx, domdelivery.CarrierNovaPoshta, cityRef)
}

func (g *NovaPoshtaGateway) CreateShipment(ctx context.Context, o *domorder.Order, sel domdelivery.Selection, contact domdelivery.Contact) (string, error) {
	point, err := g.refs.GetPoint(ctx, domdelivery.CarrierNovaPoshta, sel.PointRef)
	if err != nil {
		return "", err
	}

	data, err := g.post(ctx, "InternetDocument", "save", map[string]string{
		"Recipient":        contact.Name,
		"RecipientsPhone":  contact.Phone,
		"RecipientAddress": point.ExternalRef,
		"Cost":             strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
		"Description":      fmt.Sprintf("Order #%d", o.ID),
	})
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", gateway.Wrap("novaposhta", fmt.Errorf("empty shipment response"))
	}

	var doc struct {
		IntDocNumber string `json:"IntDocNumber"`
	}
	if err := json.Unmarshal(data[0], &doc); err != nil || doc.IntDocNumber == "" {
		return "", gateway.Wrap("novaposhta", fmt.Errorf("shipment response without document number"))
	}
	return doc.IntDocNumber, nil
}
