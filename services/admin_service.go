package services

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"catering-backend/models"
)

type Dashboard struct {
	StatusCounts      map[string]int64 `json:"status_counts"`
	BookingsThisMonth int64            `json:"bookings_this_month"`
	ReceivedPayments  decimal.Decimal  `json:"received_payments"`
	UpcomingEvents    []models.Booking `json:"upcoming_events"`
	Reviews           ReviewSummary    `json:"reviews"`
}

// AdminService builds the staff dashboard and the booking spreadsheet.
type AdminService struct {
	DB  *gorm.DB
	Loc *time.Location
	now func() time.Time
}

func NewAdminService(db *gorm.DB, loc *time.Location) *AdminService {
	if loc == nil {
		loc = time.Local
	}
	return &AdminService{DB: db, Loc: loc, now: time.Now}
}

func (s *AdminService) Dashboard(upcomingLimit int) (*Dashboard, error) {
	if upcomingLimit <= 0 {
		upcomingLimit = 5
	}
	d := &Dashboard{StatusCounts: make(map[string]int64, len(models.BookingStatuses))}
	for _, st := range models.BookingStatuses {
		d.StatusCounts[st] = 0
	}

	var rows []struct {
		PaymentStatus string
		Total         int64
	}
	if err := s.DB.Model(&models.Booking{}).
		Select("payment_status, COUNT(*) AS total").
		Group("payment_status").
		Scan(&rows).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("count by status: %w", err))
	}
	for _, r := range rows {
		d.StatusCounts[r.PaymentStatus] = r.Total
	}

	now := s.now().In(s.Loc)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.Loc)
	if err := s.DB.Model(&models.Booking{}).
		Where("booking_date >= ?", firstOfMonth.UTC()).
		Count(&d.BookingsThisMonth).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("count this month: %w", err))
	}

	// payments live in a JSON column, so they are summed in Go
	var paid []models.Booking
	if err := s.DB.Select("id", "payments").
		Where("payment_status <> ?", models.StatusCancelled).
		Find(&paid).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("load payments: %w", err))
	}
	d.ReceivedPayments = decimal.Zero
	for _, b := range paid {
		d.ReceivedPayments = d.ReceivedPayments.Add(b.PaidAmount())
	}

	if err := s.DB.
		Where("payment_status <> ? AND event_datetime >= ?", models.StatusCancelled, now.UTC()).
		Order("event_datetime ASC").
		Limit(upcomingLimit).
		Find(&d.UpcomingEvents).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("upcoming events: %w", err))
	}

	summary, err := NewReviewService(s.DB).Summary()
	if err != nil {
		return nil, err
	}
	d.Reviews = summary
	return d, nil
}

var exportHeaders = []string{
	"รหัสการจอง", "ลูกค้า", "เบอร์โทร", "แพ็กเกจ", "วันงาน", "จำนวนโต๊ะ",
	"ราคารวม", "มัดจำ", "ชำระแล้ว", "สถานะ",
}

const exportSheet = "Bookings"

// ExportBookings writes bookings matching f as an XLSX workbook to w.
func (s *AdminService) ExportBookings(w io.Writer, f BookingFilter) (int, error) {
	bookings, err := (&BookingService{DB: s.DB}).List(Actor{Role: models.RoleAdmin}, f)
	if err != nil {
		return 0, err
	}

	x := excelize.NewFile()
	defer x.Close()
	if err := x.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, InternalError("error.internal", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		x.SetCellValue(exportSheet, cell, h)
	}
	for r, b := range bookings {
		values := []interface{}{
			b.BookingCode,
			b.Customer.Name,
			b.Customer.Phone,
			b.Package.Name,
			b.EventDatetime.In(s.Loc).Format("2006-01-02 15:04"),
			b.TableCount,
			b.TotalPrice.InexactFloat64(),
			b.DepositRequired.InexactFloat64(),
			b.PaidAmount().InexactFloat64(),
			b.PaymentStatus,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			x.SetCellValue(exportSheet, cell, v)
		}
	}

	if _, err := x.WriteTo(w); err != nil {
		return 0, InternalError("error.internal", fmt.Errorf("write xlsx: %w", err))
	}
	return len(bookings), nil
}
