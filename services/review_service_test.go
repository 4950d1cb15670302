package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering-backend/models"
)

func TestReviewLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewReviewService(f.db)
	b := f.create(t, 2, 2)

	r, err := svc.Create(f.actor(), ReviewInput{BookingID: b.ID, Rating: 4, Comment: " อร่อยมาก "})
	require.NoError(t, err)
	assert.Equal(t, "อร่อยมาก", r.Comment)
	assert.Equal(t, f.customer.ID, r.CustomerID)

	_, err = svc.Create(f.actor(), ReviewInput{BookingID: b.ID, Rating: 5})
	assert.Equal(t, "review.exists", appCode(t, err))

	other := seedUser(t, f.db, "malee", models.RoleCustomer)
	otherActor := Actor{UserID: other.ID, Role: models.RoleCustomer}
	_, err = svc.Update(otherActor, r.ID, ReviewInput{Rating: 1})
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, KindForbidden, KindOf(svc.Delete(otherActor, r.ID)))

	admin := seedUser(t, f.db, "admin", models.RoleAdmin)
	err = svc.Delete(Actor{UserID: admin.ID, Role: models.RoleAdmin}, r.ID)
	assert.Equal(t, KindForbidden, KindOf(err), "only the reviewer may delete")

	updated, err := svc.Update(f.actor(), r.ID, ReviewInput{Rating: 5, Comment: "ดีมาก"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	list, err := svc.List(b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.customer.Username, list[0].Customer.Username)

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Count)
	assert.InDelta(t, 5.0, summary.Average, 0.001)

	require.NoError(t, svc.Delete(f.actor(), r.ID))
	_, err = svc.Update(f.actor(), r.ID, ReviewInput{Rating: 3})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestReviewRules(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewReviewService(f.db)
	b := f.create(t, 1, 1)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(f.actor(), ReviewInput{BookingID: b.ID, Rating: rating})
		assert.Equal(t, "review.ratingInvalid", appCode(t, err), "rating %d", rating)
	}

	other := seedUser(t, f.db, "malee", models.RoleCustomer)
	_, err := svc.Create(Actor{UserID: other.ID, Role: models.RoleCustomer}, ReviewInput{BookingID: b.ID, Rating: 3})
	assert.Equal(t, "review.notOwner", appCode(t, err))

	_, err = svc.Create(f.actor(), ReviewInput{BookingID: 9999, Rating: 3})
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.Cancel(f.actor(), b.ID)
	require.NoError(t, err)
	_, err = svc.Create(f.actor(), ReviewInput{BookingID: b.ID, Rating: 3})
	assert.Equal(t, "review.bookingCancelled", appCode(t, err))

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Average)
}
