package services

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catering-backend/models"
)

func TestDashboard(t *testing.T) {
	f := newBookingFixture(t)
	paid := f.create(t, 10, 8)
	_, err := f.svc.UpdateStatus(paid.ID, StatusUpdateInput{
		Status:  models.StatusDepositPaid,
		Payment: &PaymentInput{Amount: decimal.NewFromInt(6000), PaymentType: models.PaymentDeposit},
	})
	require.NoError(t, err)
	f.create(t, 1, 1)
	cancelled := f.create(t, 1, 1)
	_, err = f.svc.Cancel(f.actor(), cancelled.ID)
	require.NoError(t, err)

	svc := NewAdminService(f.db, testLoc)
	d, err := svc.Dashboard(2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.StatusCounts[models.StatusDepositPaid])
	assert.Equal(t, int64(1), d.StatusCounts[models.StatusPendingDeposit])
	assert.Equal(t, int64(1), d.StatusCounts[models.StatusCancelled])
	assert.Equal(t, int64(0), d.StatusCounts[models.StatusFullPayment])
	assert.Equal(t, int64(3), d.BookingsThisMonth)
	assert.True(t, d.ReceivedPayments.Equal(decimal.NewFromInt(6000)))
	assert.Len(t, d.UpcomingEvents, 2)
}

func TestExportBookings(t *testing.T) {
	f := newBookingFixture(t)
	b := f.create(t, 10, 8)
	f.create(t, 2, 2)

	svc := NewAdminService(f.db, testLoc)
	var buf bytes.Buffer
	n, err := svc.ExportBookings(&buf, BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	x, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer x.Close()

	rows, err := x.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])

	var found bool
	for _, r := range rows[1:] {
		if r[0] == b.BookingCode {
			found = true
			assert.Equal(t, "Gold", r[3])
			assert.Equal(t, b.EventDatetime.In(testLoc).Format("2006-01-02 15:04"), r[4])
			assert.Equal(t, "20000", r[6])
			assert.Equal(t, models.StatusPendingDeposit, r[9])
		}
	}
	assert.True(t, found)

	buf.Reset()
	n, err = svc.ExportBookings(&buf, BookingFilter{Status: models.StatusFullPayment})
	require.NoError(t, err)
	assert.Zero(t, n)
}
