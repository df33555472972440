package invoice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tammimikun/kids-worksheet-store/internal/config"
	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
	"github.com/tammimikun/kids-worksheet-store/pkg/metric"
)

func newTestClient(t *testing.T, token string, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Invoice{
		URL:       srv.URL,
		Timeout:   time.Second,
		FromEmail: "noreply@kidsworksheet.store",
		APIKey:    "SG.provider-key",
		AuthToken: token,
	}
	return NewClient(cfg, logger.NewNop(), metric.NewFactory().Invoice())
}

func fakePayload() *entity.InvoicePayload {
	link := "https://kidsworksheet.store/Modul/Math-Basics.pdf"
	items := []entity.ModuleItem{{Name: "Math Basics", DownloadURL: link}}
	return &entity.InvoicePayload{
		OrderID:       "KWS-10182026-0001-123",
		CustomerName:  gofakeit.FirstName(),
		CustomerEmail: gofakeit.Email(),
		Total:         decimal.RequireFromString("25000.00"),
		Items:         items,
		Status:        entity.StatusSettlement,
		GrossAmount:   "25000.00",
		DownloadLinks: items,
		DownloadURL:   &link,
	}
}

func TestClient_Send(t *testing.T) {
	var got map[string]any

	c := newTestClient(t, "invoice-token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer invoice-token", r.Header.Get("Authorization"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully"}`))
	})

	p := fakePayload()
	require.NoError(t, c.Send(context.Background(), p))

	require.Equal(t, p.OrderID, got["order_id"])
	require.Equal(t, p.CustomerEmail, got["email"])
	require.Equal(t, p.CustomerName, got["nama"])
	require.Equal(t, "25000", got["total"])
	require.Equal(t, "noreply@kidsworksheet.store", got["from_email"])
	require.Nil(t, got["settlement_time"])
	require.Equal(t, "https://kidsworksheet.store/Modul/Math-Basics.pdf", got["download_url"])
	require.Len(t, got["downloadLinks"], 1)
}

func TestClient_Send_ProviderKeyNotForwarded(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, c.Send(context.Background(), fakePayload()))
}

func TestClient_Send_Failures(t *testing.T) {
	tests := []struct {
		desc   string
		status int
		body   string
	}{
		{desc: "server error", status: http.StatusInternalServerError, body: `{"error":"SendGrid API key not configured"}`},
		{desc: "bad request", status: http.StatusBadRequest, body: `{"error":"Missing required fields"}`},
		{desc: "success false", status: http.StatusOK, body: `{"success":false,"error":"Failed to send email"}`},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Send(context.Background(), fakePayload())
			require.ErrorIs(t, err, entity.ErrInvoiceDispatch)
		})
	}
}

func TestClient_Send_Timeout(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Send(ctx, fakePayload())
	require.ErrorIs(t, err, entity.ErrInvoiceDispatch)
}
