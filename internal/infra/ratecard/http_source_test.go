package ratecard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/wirequote/internal/domain/pricing"
	"github.com/yanqian/wirequote/pkg/logger"
)

func TestHTTPSourceFetchRateCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"electricianId":"e-1","name":"Spark","hourlyRate":80,"callOutFee":50,"minimumCharge":60,"emergencyUplift":25,"isActive":true},
			{"electricianId":"e-2","name":"Sleeping","isActive":false},
			{"electricianId":"e-3","name":"Broken","hourlyRate":"eighty","isActive":true},
			"garbage"
		]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, logger.Discard())
	cards, err := src.FetchRateCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, pricing.WorkerID("e-1"), cards[0].ID)
	require.Equal(t, 80.0, cards[0].HourlyRate)
	require.Equal(t, 0.25, cards[0].EmergencyUplift)
}

func TestHTTPSourceEmptyActiveList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"electricianId":"e-1","isActive":false}]`))
	}))
	defer srv.Close()

	cards, err := NewHTTPSource(srv.URL, time.Second, logger.Discard()).FetchRateCards(context.Background())
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestHTTPSourceRejectsOversizedBody(t *testing.T) {
	body := `[{"electricianId":"e-1","name":"Spark","isActive":true},{"electricianId":"e-2","name":"Volt","isActive":true}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second, logger.Discard())
	src.maxBody = int64(len(body) / 2)
	_, err := src.FetchRateCards(context.Background())
	require.Error(t, err)

	src.maxBody = maxResponseBytes
	cards, err := src.FetchRateCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
}

func TestHTTPSourceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second, logger.Discard()).FetchRateCards(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=503")

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer bad.Close()

	_, err = NewHTTPSource(bad.URL, time.Second, logger.Discard()).FetchRateCards(context.Background())
	require.Error(t, err)

	_, err = NewHTTPSource("", time.Second, logger.Discard()).FetchRateCards(context.Background())
	require.Error(t, err)
}
