package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering-backend/models"
)

func sampleBooking() *models.Booking {
	return &models.Booking{
		BookingCode:     "BK-202605010042",
		Customer:        models.CustomerSnapshot{Name: "สมชาย ใจดี", Phone: "0812345678"},
		Package:         models.PackageSnapshot{Name: "Gold"},
		TableCount:      10,
		EventDatetime:   time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC),
		Location:        models.Location{Address: "วัดพระแก้ว"},
		TotalPrice:      decimal.NewFromInt(20000),
		DepositRequired: decimal.NewFromInt(6000),
	}
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	n := &stubNotifier{err: errors.New("line down")}
	svc := NewNotificationService(n, testLoc)

	svc.BookingCreated(sampleBooking())
	svc.Wait()

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "BK-202605010042")
	assert.Contains(t, n.messages[0], "01/05/2026 18:00", "event time is shown in the booking time zone")
	assert.Contains(t, n.messages[0], "20000.00")
}

func TestNilNotificationServiceIsNoop(t *testing.T) {
	var svc *NotificationService
	assert.NotPanics(t, func() {
		svc.BookingCreated(sampleBooking())
		svc.BookingCancelled(sampleBooking())
		svc.Wait()
	})
}

func TestLineNotifierPush(t *testing.T) {
	var got linePushRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewLineNotifier("tok", "U123")
	n.Endpoint = srv.URL
	svc := NewSyncNotificationService(n, testLoc)
	svc.BookingCancelled(sampleBooking())

	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "U123", got.To)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "text", got.Messages[0].Type)
	assert.Contains(t, got.Messages[0].Text, "BK-202605010042")
}

func TestLineNotifierReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid reply token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewLineNotifier("tok", "U123")
	n.Endpoint = srv.URL
	err := n.Notify(t.Context(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
