// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"catering-backend/middleware"
	"catering-backend/services"
	"catering-backend/utils"
)

type menuSetsPayload struct {
	MenuSets []services.MenuSetInput `json:"menu_sets" binding:"dive"`
}

type statusPayload struct {
	Status  string                 `json:"status" binding:"required,bookingstatus"`
	Payment *services.PaymentInput `json:"payment"`
}

type BookingController struct {
	Bookings *services.BookingService
	Uploads  *services.UploadService
}

func NewBookingController(bookings *services.BookingService, uploads *services.UploadService) *BookingController {
	return &BookingController{Bookings: bookings, Uploads: uploads}
}

// Availability (GET /api/bookings/availability?from=YYYY-MM-DD&to=YYYY-MM-DD) ไม่ต้อง login
func (ctrl *BookingController) Availability(c *gin.Context) {
	from, to, ok := parseDateRange(c, ctrl.Bookings.Loc)
	if !ok {
		return
	}
	out, err := ctrl.Bookings.Availability(from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", out)
}

// Quote (POST /api/bookings/quote) คำนวณราคาโดยไม่บันทึก
func (ctrl *BookingController) Quote(c *gin.Context) {
	var in services.QuoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	q, err := ctrl.Bookings.Quote(in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", q)
}

// CreateBooking (POST /api/bookings)
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := ctrl.Bookings.Create(middleware.Actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "success.created", b)
}

// GetBookings (GET /api/bookings?status=&package_id=&from=&to=)
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	from, to, ok := parseDateRange(c, ctrl.Bookings.Loc)
	if !ok {
		return
	}
	f := services.BookingFilter{Status: c.Query("status"), From: from, To: to}
	if raw := c.Query("package_id"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidID", nil)
			return
		}
		f.PackageID = uint(pid)
	}
	out, err := ctrl.Bookings.List(middleware.Actor(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", out)
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.Bookings.Get(middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", b)
}

// UpdateMenuSets (PUT /api/bookings/:id/menu-sets)
func (ctrl *BookingController) UpdateMenuSets(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p menuSetsPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	b, err := ctrl.Bookings.UpdateMenuSets(middleware.Actor(c), id, p.MenuSets)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", b)
}

// CancelBooking (POST /api/bookings/:id/cancel) ลูกค้ายกเลิกเองได้เฉพาะยังไม่จ่ายมัดจำ
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := ctrl.Bookings.Cancel(middleware.Actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.cancelled", b)
}

// bindStatusForm reads a multipart status update; the slip file is optional.
func bindStatusForm(c *gin.Context) (services.StatusUpdateInput, bool) {
	in := services.StatusUpdateInput{Status: strings.TrimSpace(c.PostForm("status"))}
	rawAmount := strings.TrimSpace(c.PostForm("amount"))
	if rawAmount == "" {
		return in, true
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "booking.paymentInvalid", nil)
		return in, false
	}
	p := &services.PaymentInput{Amount: amount, PaymentType: strings.TrimSpace(c.PostForm("payment_type"))}
	if raw := strings.TrimSpace(c.PostForm("payment_date")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "booking.paymentInvalid", nil)
			return in, false
		}
		p.PaymentDate = &t
	}
	in.Payment = p
	return in, true
}

// UpdateStatus (PUT /api/bookings/:id/status) JSON หรือ multipart พร้อมไฟล์ slip
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var in services.StatusUpdateInput
	slipPath := ""
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if in, ok = bindStatusForm(c); !ok {
			return
		}
		if fh, err := c.FormFile("slip"); err == nil {
			if in.Payment == nil {
				utils.JSONError(c, http.StatusBadRequest, "booking.paymentInvalid", nil)
				return
			}
			path, err := ctrl.Uploads.Save(fh, services.PaymentSlipRule)
			if err != nil {
				respondError(c, err)
				return
			}
			slipPath = path
			in.Payment.Slip = path
		}
	} else {
		var p statusPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, err)
			return
		}
		in = services.StatusUpdateInput{Status: p.Status, Payment: p.Payment}
	}

	b, err := ctrl.Bookings.UpdateStatus(id, in)
	if err != nil {
		if slipPath != "" {
			ctrl.Uploads.Remove(slipPath)
		}
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.updated", b)
}

// DeleteBooking (DELETE /api/bookings/:id) ลบจริง เฉพาะ admin
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Bookings.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.deleted", gin.H{"id": id})
}
