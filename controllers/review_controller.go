package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catering-backend/middleware"
	"catering-backend/services"
	"catering-backend/utils"
)

type reviewPayload struct {
	BookingID uint   `json:"booking_id"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type ReviewController struct {
	Reviews *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{Reviews: svc}
}

// GetReviews (GET /api/reviews?booking_id=) คืนรายการพร้อมคะแนนเฉลี่ย
func (ctrl *ReviewController) GetReviews(c *gin.Context) {
	var bookingID uint
	if raw := c.Query("booking_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidID", nil)
			return
		}
		bookingID = uint(v)
	}
	reviews, err := ctrl.Reviews.List(bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := ctrl.Reviews.Summary()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", gin.H{"reviews": reviews, "summary": summary})
}

func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	var p reviewPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	r, err := ctrl.Reviews.Create(middleware.Actor(c), services.ReviewInput{
		BookingID: p.BookingID,
		Rating:    p.Rating,
		Comment:   p.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "success.created", r)
}

func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p reviewPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	r, err := ctrl.Reviews.Update(middleware.Actor(c), id, services.ReviewInput{Rating: p.Rating, Comment: p.Comment})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", r)
}

func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Reviews.Delete(middleware.Actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.deleted", gin.H{"id": id})
}
