package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderSendsTomorrowsEvents(t *testing.T) {
	f := newBookingFixture(t)
	today := time.Date(2030, 7, 1, 9, 0, 0, 0, testLoc)
	tomorrow := today.AddDate(0, 0, 1)

	for _, when := range []time.Time{tomorrow.Add(2 * time.Hour), tomorrow.Add(8 * time.Hour), tomorrow.AddDate(0, 0, 1)} {
		in := f.input(3, 2)
		in.EventDatetime = when
		_, err := f.svc.Create(f.actor(), in)
		require.NoError(t, err)
	}

	n := &stubNotifier{}
	rs := NewReminderService(f.svc, NewSyncNotificationService(n, testLoc), "")
	rs.now = func() time.Time { return today }

	sent, err := rs.SendTomorrow()
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "02/07/2030")
	assert.Contains(t, n.messages[0], "(2 งาน)")

	rs.now = func() time.Time { return today.AddDate(0, 0, 5) }
	sent, err = rs.SendTomorrow()
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, n.messages, 1)
}

func TestReminderRejectsBadSchedule(t *testing.T) {
	f := newBookingFixture(t)
	rs := NewReminderService(f.svc, nil, "not a cron")
	assert.Error(t, rs.Start())
}
