package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catering-backend/services"
	"catering-backend/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	Admin *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{Admin: svc}
}

// Dashboard (GET /api/admin/dashboard?upcoming=5)
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("upcoming", "5"))
	d, err := ctrl.Admin.Dashboard(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "success.fetched", d)
}

// ExportBookings (GET /api/admin/bookings/export?status=&from=&to=)
func (ctrl *AdminController) ExportBookings(c *gin.Context) {
	from, to, ok := parseDateRange(c, ctrl.Admin.Loc)
	if !ok {
		return
	}
	f := services.BookingFilter{Status: c.Query("status"), From: from, To: to}

	var buf bytes.Buffer
	if _, err := ctrl.Admin.ExportBookings(&buf, f); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bookings-%s.xlsx"`, c.DefaultQuery("from", "all")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
