package deliverygw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	domgateway "example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
)

// --- Mock reference repository ---

type mockReferenceRepository struct {
	points map[string]*domdelivery.Point
}

func newMockReferenceRepository() *mockReferenceRepository {
	return &mockReferenceRepository{
		points: map[string]*domdelivery.Point{
			"WH-1": {Carrier: domdelivery.CarrierNovaPoshta, ExternalRef: "WH-1", CityRef: "c1", Name: "Warehouse 1", IsActive: true},
			"ST-1": {Carrier: domdelivery.CarrierPickup, ExternalRef: "ST-1", CityRef: "c1", Name: "Main store", IsActive: true},
			"ST-2": {Carrier: domdelivery.CarrierPickup, ExternalRef: "ST-2", CityRef: "c1", Name: "Closed store", IsActive: false},
		},
	}
}

func (m *mockReferenceRepository) Regions(ctx context.Context, carrier domdelivery.Carrier) ([]domdelivery.Region, error) {
	return []domdelivery.Region{{Carrier: carrier, ExternalRef: "r1", Name: "Kyivska"}}, nil
}

func (m *mockReferenceRepository) Cities(ctx context.Context, carrier domdelivery.Carrier, regionRef string) ([]domdelivery.City, error) {
	return []domdelivery.City{{Carrier: carrier, ExternalRef: "c1", RegionRef: regionRef, Name: "Kyiv"}}, nil
}

func (m *mockReferenceRepository) Points(ctx context.Context, carrier domdelivery.Carrier, cityRef string) ([]domdelivery.Point, error) {
	var result []domdelivery.Point
	for _, p := range m.points {
		if p.Carrier == carrier && p.CityRef == cityRef && p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockReferenceRepository) GetPoint(ctx context.Context, carrier domdelivery.Carrier, ref string) (*domdelivery.Point, error) {
	p, ok := m.points[ref]
	if !ok || p.Carrier != carrier {
		return nil, domdelivery.ErrPointNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (m *mockReferenceRepository) UpsertRegions(ctx context.Context, regions []domdelivery.Region) (int, error) {
	return len(regions), nil
}

func (m *mockReferenceRepository) UpsertCities(ctx context.Context, cities []domdelivery.City) (int, error) {
	return len(cities), nil
}

func (m *mockReferenceRepository) UpsertPoints(ctx context.Context, points []domdelivery.Point) (int, error) {
	return len(points), nil
}

var testOrder = &domorder.Order{ID: 7, UserID: 100, TotalAmount: 25.0}
var testContact = domdelivery.Contact{Name: "Olena", Phone: "+380501112233"}

// --- Pickup ---

func TestPickupCreateShipment_ValidPoint(t *testing.T) {
	gw := NewPickupGateway(newMockReferenceRepository())

	tracking, err := gw.CreateShipment(context.Background(), testOrder,
		domdelivery.Selection{Carrier: domdelivery.CarrierPickup, PointRef: "ST-1"}, testContact)
	require.NoError(t, err)
	require.Empty(t, tracking)
}

func TestPickupCreateShipment_UnknownPoint(t *testing.T) {
	gw := NewPickupGateway(newMockReferenceRepository())

	_, err := gw.CreateShipment(context.Background(), testOrder,
		domdelivery.Selection{Carrier: domdelivery.CarrierPickup, PointRef: "ST-404"}, testContact)
	require.ErrorIs(t, err, domdelivery.ErrPointNotFound)
}

func TestPickupCreateShipment_InactivePoint(t *testing.T) {
	gw := NewPickupGateway(newMockReferenceRepository())

	_, err := gw.CreateShipment(context.Background(), testOrder,
		domdelivery.Selection{Carrier: domdelivery.CarrierPickup, PointRef: "ST-2"}, testContact)
	require.ErrorIs(t, err, domdelivery.ErrPointNotFound)
}

// --- Nova Poshta ---

func TestNovaPoshtaCreateShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ModelName        string            `json:"modelName"`
			CalledMethod     string            `json:"calledMethod"`
			MethodProperties map[string]string `json:"methodProperties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "InternetDocument", req.ModelName)
		require.Equal(t, "save", req.CalledMethod)
		require.Equal(t, "Olena", req.MethodProperties["Recipient"])
		require.Equal(t, "WH-1", req.MethodProperties["RecipientAddress"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]string{{"IntDocNumber": "20400012345678"}},
		})
	}))
	defer srv.Close()

	gw := NewNovaPoshtaGateway("key", srv.URL, newMockReferenceRepository())
	tracking, err := gw.CreateShipment(context.Background(), testOrder,
		domdelivery.Selection{Carrier: domdelivery.CarrierNovaPoshta, PointRef: "WH-1"}, testContact)
	require.NoError(t, err)
	require.Equal(t, "20400012345678", tracking)
}

func TestNovaPoshtaCreateShipment_UnknownPointSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for unknown point")
	}))
	defer srv.Close()

	gw := NewNovaPoshtaGateway("key", srv.URL, newMockReferenceRepository())
	_, err := gw.CreateShipment(context.Background(), testOrder,
		domdelivery.Selection{Carrier: domdelivery.CarrierNovaPoshta, PointRef: "WH-404"}, testContact)
	require.ErrorIs(t, err, domdelivery.ErrPointNotFound)
}

func TestNovaPoshtaCreateShipment_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []string{"API key expired"},
		})
	}))
	defer srv.Close()

	gw := NewNovaPoshtaGateway("key", srv.URL, newMockReferenceRepository())
	_, err := gw.CreateShipment(context.Background(), testOrder,
		domdelivery.Selection{Carrier: domdelivery.CarrierNovaPoshta, PointRef: "WH-1"}, testContact)
	require.Error(t, err)
	require.True(t, domgateway.Is(err))
}

func TestNovaPoshtaFetchCities_Paginates(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MethodProperties map[string]string `json:"methodProperties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		page := req.MethodProperties["Page"]
		pages = append(pages, page)

		var data []map[string]string
		if page == "1" {
			// A full page forces a second fetch.
			for i := 0; i < 500; i++ {
				data = append(data, map[string]string{
					"Ref":         "city-" + page + "-" + strconv.Itoa(i),
					"Description": "City",
					"Area":        "r1",
				})
			}
		} else {
			data = []map[string]string{{"Ref": "city-last", "Description": "City", "Area": "r1"}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	}))
	defer srv.Close()

	gw := NewNovaPoshtaGateway("key", srv.URL, newMockReferenceRepository())
	cities, err := gw.FetchCities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 501)
	require.Equal(t, []string{"1", "2"}, pages)
}

func TestNovaPoshtaFetchRegions_SkipsMalformedEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]string{
				{"Ref": "r1", "Description": "Kyivska"},
				{"Description": "missing ref"},
			},
		})
	}))
	defer srv.Close()

	gw := NewNovaPoshtaGateway("key", srv.URL, newMockReferenceRepository())
	regions, err := gw.FetchRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, "r1", regions[0].ExternalRef)
}

// --- Factory ---

func TestFactoryResolve(t *testing.T) {
	refs := newMockReferenceRepository()
	factory := NewFactory(NewNovaPoshtaGateway("key", "", refs), NewPickupGateway(refs))

	for _, carrier := range []domdelivery.Carrier{domdelivery.CarrierNovaPoshta, domdelivery.CarrierPickup} {
		gw, err := factory.Resolve(carrier)
		require.NoError(t, err)
		require.NotNil(t, gw)
	}

	_, err := factory.Resolve("drone")
	require.ErrorIs(t, err, domgateway.ErrUnsupported)
}
