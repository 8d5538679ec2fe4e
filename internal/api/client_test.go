package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/observability/metrics"
)

type recorded struct {
	method string
	path   string
	query  map[string][]string
	header http.Header
	body   []byte
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
			body:   body,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBearerTokenAndRequestID(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, models.User{ID: "u1", Name: "Ana", Role: models.RoleClient})
	})

	token := ""
	c := New(srv.URL+"/api/", WithTokenSource(TokenFunc(func() string { return token })))

	_, err := c.GetProfile(context.Background())
	require.NoError(t, err)

	token = "abc"
	user, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/api/users/me", (*calls)[0].path)
	assert.Empty(t, (*calls)[0].header.Get("Authorization"))
	assert.Equal(t, "Bearer abc", (*calls)[1].header.Get("Authorization"))
	assert.Len(t, (*calls)[1].header.Get("X-Request-ID"), 36)
}

func TestErrorBodyIsParsed(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"message": "Credenciais inválidas"})
	})
	c := New(srv.URL)

	_, err := c.Login(context.Background(), LoginPayload{Email: "a@b.com", Password: "x"})
	require.Error(t, err)

	var apiErr *httperr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Credenciais inválidas", httperr.MessageOf(err, "fallback"))
}

func TestNetworkErrorUsesGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithTimeout(time.Second))
	_, err := c.ListBookings(context.Background())
	require.Error(t, err)
	assert.Equal(t, httperr.GenericMessage, httperr.MessageOf(err, "fallback"))
}

func TestListBarbershopsTotal(t *testing.T) {
	shops := []models.Barbershop{{ID: "s1", Name: "A"}, {ID: "s2", Name: "B"}}

	t.Run("header present", func(t *testing.T) {
		srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Total-Count", "42")
			writeJSON(w, 200, shops)
		})
		c := New(srv.URL)

		res, err := c.ListBarbershops(context.Background(), ListBarbershopsParams{
			Region: String("centro"),
			Page:   Int(2),
			Limit:  Int(9),
		})
		require.NoError(t, err)
		assert.Equal(t, 42, res.Total)
		assert.Len(t, res.Data, 2)

		q := (*calls)[0].query
		assert.Equal(t, []string{"centro"}, q["region"])
		assert.Equal(t, []string{"2"}, q["page"])
		assert.Equal(t, []string{"9"}, q["limit"])
	})

	t.Run("header missing falls back to page size", func(t *testing.T) {
		srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, shops)
		})
		c := New(srv.URL)

		res, err := c.ListBarbershops(context.Background(), ListBarbershopsParams{
			Region: String("centro"),
			Page:   Int(2),
			Limit:  Int(9),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("header not numeric", func(t *testing.T) {
		srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Total-Count", "muitos")
			writeJSON(w, 200, shops)
		})
		res, err := New(srv.URL).ListBarbershops(context.Background(), ListBarbershopsParams{})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})
}

func TestListParamsQuery(t *testing.T) {
	p := ListBarbershopsParams{
		OrderBy:   String(OrderByName),
		Latitude:  Float(-23.5),
		Longitude: Float(-46.6),
		Radius:    Float(5),
	}
	q := p.Query()
	assert.Equal(t, "name", q.Get("orderBy"))
	assert.Empty(t, q.Get("latitude"))

	p.OrderBy = String(OrderByDistance)
	q = p.Query()
	assert.Equal(t, "-23.5", q.Get("latitude"))
	assert.Equal(t, "-46.6", q.Get("longitude"))
	assert.Equal(t, "5", q.Get("radius"))
}

func TestListParamsMerge(t *testing.T) {
	stored := ListBarbershopsParams{
		Region:  String("centro"),
		OrderBy: String(OrderByDistance),
		Radius:  Float(3),
		Page:    Int(1),
		Limit:   Int(9),
	}

	merged := stored.Merge(ListBarbershopsParams{Page: Int(3)})
	assert.Equal(t, "centro", *merged.Region)
	assert.Equal(t, OrderByDistance, *merged.OrderBy)
	assert.Equal(t, 3.0, *merged.Radius)
	assert.Equal(t, 3, *merged.Page)
	assert.Equal(t, 9, *merged.Limit)

	merged = merged.Merge(ListBarbershopsParams{Region: String("")})
	assert.Equal(t, "", *merged.Region)
	assert.Equal(t, 1, *stored.Page)
}

func TestGetMyBarbershopNull(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	})

	shop, err := New(srv.URL).GetMyBarbershop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, shop)
}

func TestCreateBookingPayload(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, models.Booking{ID: "bk1", Status: models.BookingPending})
	})

	loc := time.FixedZone("BRT", -3*3600)
	at := time.Date(2030, 5, 10, 14, 0, 0, 0, loc)

	bk, err := New(srv.URL).CreateBooking(context.Background(), CreateBookingPayload{
		ServiceID:    "svc1",
		BarbershopID: "s1",
		BarberID:     "b1",
		Date:         at,
	})
	require.NoError(t, err)
	assert.Equal(t, "bk1", bk.ID)

	var sent map[string]string
	require.NoError(t, json.Unmarshal((*calls)[0].body, &sent))
	assert.Equal(t, map[string]string{
		"serviceId":    "svc1",
		"barbershopId": "s1",
		"barberId":     "b1",
		"date":         "2030-05-10T17:00:00.000Z",
	}, sent)
	assert.Equal(t, "application/json", (*calls)[0].header.Get("Content-Type"))
}

func TestCheckAvailabilityAndBarbers(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings/availability":
			writeJSON(w, 200, map[string]bool{"available": true})
		case "/services/svc1/barbers":
			writeJSON(w, 200, []models.Barber{{ID: "b1", Name: "João"}})
		default:
			w.WriteHeader(404)
		}
	})
	c := New(srv.URL)

	ok, err := c.CheckAvailability(context.Background(), "b1", time.Date(2030, 1, 2, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"b1"}, (*calls)[0].query["barberId"])
	assert.Equal(t, []string{"2030-01-02T03:00:00.000Z"}, (*calls)[0].query["date"])

	barbers, err := c.ListServiceBarbers(context.Background(), "svc1", "s1")
	require.NoError(t, err)
	require.Len(t, barbers, 1)
	assert.Equal(t, "João", barbers[0].Name)
	assert.Equal(t, []string{"s1"}, (*calls)[1].query["barbershopId"])
}

func TestServiceCRUDMethods(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, 200, models.Service{ID: "svc1", Name: "Barba"})
	})
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.CreateService(ctx, ServicePayload{BarbershopID: "s1", Name: "Barba"})
	require.NoError(t, err)
	_, err = c.UpdateService(ctx, "svc1", ServicePatch{Name: String("Barba completa")})
	require.NoError(t, err)
	require.NoError(t, c.DeleteService(ctx, "svc1"))

	require.Len(t, *calls, 3)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
	assert.Equal(t, "/services/svc1", (*calls)[1].path)
	assert.JSONEq(t, `{"name":"Barba completa"}`, string((*calls)[1].body))
	assert.Equal(t, http.MethodDelete, (*calls)[2].method)
}

func TestListServicesFilter(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []models.Service{{ID: "svc1", BarbershopID: "s1", Name: "Barba"}})
	})
	c := New(srv.URL)
	ctx := context.Background()

	list, err := c.ListServices(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Barba", list[0].Name)

	_, err = c.ListServices(ctx, "")
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/services", (*calls)[0].path)
	assert.Equal(t, []string{"s1"}, (*calls)[0].query["barbershopId"])
	assert.NotContains(t, (*calls)[1].query, "barbershopId")
}

func TestRateLimitAndMetrics(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []models.Booking{})
	})

	m := metrics.NewAPIMetrics(prometheus.NewRegistry())
	c := New(srv.URL, WithRateLimit(1000, 1), WithMetrics(m))

	for i := 0; i < 3; i++ {
		_, err := c.ListBookings(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, *calls, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := New(srv.URL, WithRateLimit(0.001, 1))
	_, _ = slow.ListBookings(context.Background())
	_, err := slow.ListBookings(ctx)
	assert.Error(t, err)
}
