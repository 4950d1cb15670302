package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"catering-backend/services"
	"catering-backend/utils"
)

func statusForKind(k services.ErrorKind) int {
	switch k {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to the JSON error envelope.
// Internal errors are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	var ae *services.AppError
	if !errors.As(err, &ae) {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", nil)
		return
	}
	status := statusForKind(ae.Kind)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, ae)
	}
	utils.JSONError(c, status, ae.Code, ae.Params)
}

func badRequest(c *gin.Context, err error) {
	log.Printf("⚠️ invalid payload on %s: %v", c.Request.URL.Path, err)
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", nil)
}

// idParam รับเฉพาะตัวเลขบวก
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidID", nil)
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery accepts YYYY-MM-DD (start of that day in loc) or RFC3339.
// With inclusiveDay a plain date moves to the start of the next day, so an
// exclusive upper bound still covers the whole named day.
func parseDateQuery(c *gin.Context, key string, loc *time.Location, inclusiveDay bool) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		if inclusiveDay {
			t = t.AddDate(0, 0, 1)
		}
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	utils.JSONError(c, http.StatusBadRequest, "booking.dateRangeInvalid", nil)
	return nil, false
}

// parseDateRange reads ?from=&to=; to=YYYY-MM-DD includes that whole day.
func parseDateRange(c *gin.Context, loc *time.Location) (from, to *time.Time, ok bool) {
	if from, ok = parseDateQuery(c, "from", loc, false); !ok {
		return nil, nil, false
	}
	if to, ok = parseDateQuery(c, "to", loc, true); !ok {
		return nil, nil, false
	}
	return from, to, true
}
