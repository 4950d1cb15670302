package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"catering-backend/models"
)

type ReviewInput struct {
	BookingID uint   `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ReviewSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

func checkRating(r int) error {
	if r < 1 || r > 5 {
		return ValidationError("review.ratingInvalid", nil)
	}
	return nil
}

// List returns reviews (newest first) with the customer preloaded; bookingID 0 means all.
func (s *ReviewService) List(bookingID uint) ([]models.Review, error) {
	q := s.DB.Preload("Customer").Order("created_at DESC")
	if bookingID != 0 {
		q = q.Where("booking_id = ?", bookingID)
	}
	var out []models.Review
	if err := q.Find(&out).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("list reviews: %w", err))
	}
	return out, nil
}

func (s *ReviewService) Summary() (ReviewSummary, error) {
	var row struct {
		Count   int64
		Average *float64
	}
	err := s.DB.Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Scan(&row).Error
	if err != nil {
		return ReviewSummary{}, InternalError("error.internal", fmt.Errorf("review summary: %w", err))
	}
	out := ReviewSummary{Count: row.Count}
	if row.Average != nil {
		out.Average = *row.Average
	}
	return out, nil
}

func (s *ReviewService) get(id uint) (*models.Review, error) {
	var r models.Review
	if err := s.DB.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("review.notFound")
		}
		return nil, InternalError("error.internal", err)
	}
	return &r, nil
}

// Create adds the single review a customer may leave on their own, non-cancelled booking.
func (s *ReviewService) Create(actor Actor, in ReviewInput) (*models.Review, error) {
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	var b models.Booking
	if err := s.DB.First(&b, in.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("booking.notFound")
		}
		return nil, InternalError("error.internal", err)
	}
	if b.Customer.ID != actor.UserID {
		return nil, ForbiddenError("review.notOwner")
	}
	if b.PaymentStatus == models.StatusCancelled {
		return nil, ValidationError("review.bookingCancelled", nil)
	}

	r := models.Review{
		BookingID:  b.ID,
		CustomerID: actor.UserID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := s.DB.Omit("Customer", "Booking").Create(&r).Error; err != nil {
		if IsDuplicateKey(err) {
			return nil, ConflictError("review.exists")
		}
		return nil, InternalError("error.internal", fmt.Errorf("create review: %w", err))
	}
	return &r, nil
}

func (s *ReviewService) Update(actor Actor, id uint, in ReviewInput) (*models.Review, error) {
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if r.CustomerID != actor.UserID {
		return nil, ForbiddenError("review.notOwner")
	}
	r.Rating = in.Rating
	r.Comment = strings.TrimSpace(in.Comment)
	if err := s.DB.Model(r).Updates(map[string]interface{}{
		"rating":  r.Rating,
		"comment": r.Comment,
	}).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("update review: %w", err))
	}
	return r, nil
}

// Delete is allowed for the owner only.
func (s *ReviewService) Delete(actor Actor, id uint) error {
	r, err := s.get(id)
	if err != nil {
		return err
	}
	if r.CustomerID != actor.UserID {
		return ForbiddenError("review.notOwner")
	}
	if err := s.DB.Delete(&models.Review{}, r.ID).Error; err != nil {
		return InternalError("error.internal", fmt.Errorf("delete review: %w", err))
	}
	return nil
}
