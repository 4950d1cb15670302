// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catering-backend/models"
	"catering-backend/utils"
)

const bookingCodeMaxAttempts = 10

var ErrBookingCodeExhausted = errors.New("booking code retries exhausted")

// Actor is the authenticated caller as resolved by the auth middleware.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// IsStaff covers roles that may read every booking.
func (a Actor) IsStaff() bool { return a.Role == models.RoleAdmin || a.Role == models.RoleChef }

type MenuSetInput struct {
	MenuID   uint `json:"menu_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

type LocationInput struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreateBookingInput struct {
	PackageID       uint             `json:"package_id" binding:"required"`
	EventDatetime   time.Time        `json:"event_datetime"`
	TableCount      int              `json:"table_count"`
	Location        LocationInput    `json:"location"`
	MenuSets        []MenuSetInput   `json:"menu_sets" binding:"dive"`
	DepositRequired *decimal.Decimal `json:"deposit_required"`
	Note            string           `json:"note"`
}

type QuoteInput struct {
	PackageID  uint           `json:"package_id" binding:"required"`
	TableCount int            `json:"table_count"`
	MenuSets   []MenuSetInput `json:"menu_sets" binding:"dive"`
}

type PaymentInput struct {
	Amount      decimal.Decimal `json:"amount" form:"amount"`
	PaymentType string          `json:"payment_type" form:"payment_type"`
	PaymentDate *time.Time      `json:"payment_date" form:"payment_date" time_format:"2006-01-02T15:04:05Z07:00"`
	Slip        string          `json:"-" form:"-"`
}

type StatusUpdateInput struct {
	Status  string        `json:"status"`
	Payment *PaymentInput `json:"payment"`
}

type BookingFilter struct {
	Status    string
	PackageID uint
	From      *time.Time
	To        *time.Time
}

type DayAvailability struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
}

type Availability struct {
	Cap    int                        `json:"cap"`
	Counts map[string]int             `json:"counts"`
	Days   map[string]DayAvailability `json:"days"`
}

const (
	DayAvailable = "available"
	DayPartial   = "partial"
	DayFull      = "full"
)

// allowedTransitions lists legal status moves; full-payment and cancelled are terminal.
var allowedTransitions = map[string][]string{
	models.StatusPendingDeposit: {models.StatusPendingDeposit, models.StatusDepositPaid, models.StatusFullPayment, models.StatusCancelled},
	models.StatusDepositPaid:    {models.StatusDepositPaid, models.StatusFullPayment, models.StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func isBookingStatus(s string) bool {
	for _, st := range models.BookingStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func isPaymentType(s string) bool {
	for _, t := range models.PaymentTypes {
		if t == s {
			return true
		}
	}
	return false
}

// BookingService เป็น wrapper รอบ *gorm.DB เพื่อแยก logic ของ booking
type BookingService struct {
	DB       *gorm.DB
	Notify   *NotificationService
	Loc      *time.Location
	DailyCap int

	now     func() time.Time
	newCode func(time.Time) (string, error)
}

func NewBookingService(db *gorm.DB, notify *NotificationService, loc *time.Location, dailyCap int) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	if dailyCap <= 0 {
		dailyCap = 2
	}
	return &BookingService{
		DB:       db,
		Notify:   notify,
		Loc:      loc,
		DailyCap: dailyCap,
		now:      time.Now,
		newCode:  utils.GenerateBookingCode,
	}
}

// resolveMenuSets merges duplicate menu ids, checks every menu is active and
// snapshots name/category.
func resolveMenuSets(db *gorm.DB, in []MenuSetInput) ([]models.MenuSet, error) {
	order := make([]uint, 0, len(in))
	qty := make(map[uint]int, len(in))
	for _, it := range in {
		if it.Quantity < 0 {
			return nil, ValidationError("booking.quantityInvalid", nil)
		}
		q := it.Quantity
		if q == 0 {
			q = 1
		}
		if _, ok := qty[it.MenuID]; !ok {
			order = append(order, it.MenuID)
		}
		qty[it.MenuID] += q
	}

	menus, err := loadMenus(db, order)
	if err != nil {
		return nil, InternalError("error.internal", err)
	}
	out := make([]models.MenuSet, 0, len(order))
	for _, id := range order {
		m, ok := menus[id]
		if !ok {
			return nil, ValidationError("booking.menuNotFound", map[string]any{"menu_id": id})
		}
		if !m.IsActive {
			return nil, ValidationError("menu.inactive", map[string]any{"code": m.Code})
		}
		out = append(out, models.MenuSet{
			MenuID:   m.ID,
			Name:     m.Name,
			Category: m.Category,
			Quantity: qty[id],
		})
	}
	return out, nil
}

func (s *BookingService) activePackage(id uint) (*models.MenuPackage, error) {
	pkg, err := findPackage(s.DB, id)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, ValidationError("package.inactive", nil)
	}
	return pkg, nil
}

// Quote prices a prospective booking without saving anything.
func (s *BookingService) Quote(in QuoteInput) (Quote, error) {
	pkg, err := s.activePackage(in.PackageID)
	if err != nil {
		return Quote{}, err
	}
	sets, err := resolveMenuSets(s.DB, in.MenuSets)
	if err != nil {
		return Quote{}, err
	}
	return CalculatePrice(RulesFromPackage(pkg), in.TableCount, len(sets))
}

// Create validates, prices and stores a booking for the given customer.
func (s *BookingService) Create(actor Actor, in CreateBookingInput) (*models.Booking, error) {
	if in.TableCount < 1 {
		return nil, ValidationError("booking.tableCountInvalid", nil)
	}
	if in.EventDatetime.IsZero() {
		return nil, ValidationError("booking.eventDateRequired", nil)
	}
	now := s.now()
	if in.EventDatetime.Before(now) {
		return nil, ValidationError("booking.eventDatePast", nil)
	}
	address := strings.TrimSpace(in.Location.Address)
	if address == "" {
		return nil, ValidationError("booking.locationRequired", nil)
	}

	var customer models.User
	if err := s.DB.First(&customer, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user.notFound")
		}
		return nil, InternalError("error.internal", fmt.Errorf("load customer: %w", err))
	}

	pkg, err := s.activePackage(in.PackageID)
	if err != nil {
		return nil, err
	}
	sets, err := resolveMenuSets(s.DB, in.MenuSets)
	if err != nil {
		return nil, err
	}
	quote, err := CalculatePrice(RulesFromPackage(pkg), in.TableCount, len(sets))
	if err != nil {
		return nil, err
	}

	deposit := DefaultDeposit(quote.TotalPrice)
	if in.DepositRequired != nil {
		if in.DepositRequired.IsNegative() || in.DepositRequired.GreaterThan(quote.TotalPrice) {
			return nil, ValidationError("booking.depositInvalid", nil)
		}
		deposit = *in.DepositRequired
	}

	booking := models.Booking{
		Customer: models.CustomerSnapshot{
			ID:    customer.ID,
			Name:  customer.FullName(),
			Phone: customer.Phone,
			Email: customer.Email,
		},
		Package: models.PackageSnapshot{
			ID:             pkg.ID,
			Name:           pkg.Name,
			PricePerTable:  pkg.PricePerTable,
			MaxSelections:  pkg.IncludedCount(),
			ExtraMenuPrice: pkg.ExtraPrice(),
		},
		EventDatetime: in.EventDatetime.UTC(),
		TableCount:    in.TableCount,
		Location: models.Location{
			Address:   address,
			Latitude:  in.Location.Latitude,
			Longitude: in.Location.Longitude,
		},
		Note:            strings.TrimSpace(in.Note),
		MenuSets:        sets,
		Payments:        []models.PaymentRecord{},
		PaymentStatus:   models.StatusPendingDeposit,
		DepositRequired: deposit,
		TotalPrice:      quote.TotalPrice,
		BookingDate:     now.UTC(),
	}

	if err := s.insertWithUniqueCode(&booking, now); err != nil {
		return nil, err
	}

	s.Notify.BookingCreated(&booking)
	return &booking, nil
}

// insertWithUniqueCode relies on the unique index on booking_code and retries
// with a fresh suffix when the insert collides.
func (s *BookingService) insertWithUniqueCode(b *models.Booking, now time.Time) error {
	var lastErr error
	for attempt := 0; attempt < bookingCodeMaxAttempts; attempt++ {
		code, err := s.newCode(now.In(s.Loc))
		if err != nil {
			return InternalError("error.internal", fmt.Errorf("generate booking code: %w", err))
		}
		b.ID = 0
		b.BookingCode = code

		lastErr = s.DB.Create(b).Error
		if lastErr == nil {
			return nil
		}
		if IsDuplicateKey(lastErr) {
			log.Printf("create booking code collision %s (attempt %d) - retrying", code, attempt+1)
			continue
		}
		return InternalError("error.internal", fmt.Errorf("failed to create booking: %w", lastErr))
	}
	return InternalError("booking.codeExhausted", fmt.Errorf("%w: %v", ErrBookingCodeExhausted, lastErr))
}

func (s *BookingService) load(db *gorm.DB, id uint, lock bool) (*models.Booking, error) {
	var b models.Booking
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("booking.notFound")
		}
		return nil, InternalError("error.internal", fmt.Errorf("load booking %d: %w", id, err))
	}
	return &b, nil
}

// Get returns a booking visible to actor: staff see all, customers only their own.
func (s *BookingService) Get(actor Actor, id uint) (*models.Booking, error) {
	b, err := s.load(s.DB, id, false)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && b.Customer.ID != actor.UserID {
		return nil, ForbiddenError("booking.notOwner")
	}
	return b, nil
}

func (s *BookingService) List(actor Actor, f BookingFilter) ([]models.Booking, error) {
	q := s.DB.Model(&models.Booking{})
	if !actor.IsStaff() {
		q = q.Where("customer_id = ?", actor.UserID)
	}
	if f.Status != "" {
		if !isBookingStatus(f.Status) {
			return nil, ValidationError("booking.invalidStatus", nil)
		}
		q = q.Where("payment_status = ?", f.Status)
	}
	if f.PackageID != 0 {
		q = q.Where("package_id = ?", f.PackageID)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, ValidationError("booking.dateRangeInvalid", nil)
	}
	if f.From != nil {
		q = q.Where("event_datetime >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("event_datetime < ?", f.To.UTC())
	}
	var out []models.Booking
	if err := q.Order("event_datetime DESC").Find(&out).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("failed to retrieve bookings: %w", err))
	}
	return out, nil
}

// UpdateStatus moves a booking along the payment state machine, optionally
// appending a payment record. Only legal transitions are accepted.
func (s *BookingService) UpdateStatus(id uint, in StatusUpdateInput) (*models.Booking, error) {
	target := strings.TrimSpace(in.Status)
	if !isBookingStatus(target) {
		return nil, ValidationError("booking.invalidStatus", nil)
	}

	var record *models.PaymentRecord
	if in.Payment != nil {
		p := in.Payment
		if !p.Amount.IsPositive() || !isPaymentType(p.PaymentType) {
			return nil, ValidationError("booking.paymentInvalid", nil)
		}
		date := s.now()
		if p.PaymentDate != nil && !p.PaymentDate.IsZero() {
			date = *p.PaymentDate
		}
		record = &models.PaymentRecord{
			PaymentDate: date,
			Amount:      p.Amount,
			PaymentType: p.PaymentType,
			Slip:        p.Slip,
		}
	}

	var (
		booking *models.Booking
		from    string
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.load(tx, id, true)
		if err != nil {
			return err
		}
		from = b.PaymentStatus
		if !CanTransition(from, target) {
			return ValidationError("booking.invalidTransition", map[string]any{"from": from, "to": target})
		}

		payments := append([]models.PaymentRecord{}, b.Payments...)
		if record != nil {
			payments = append(payments, *record)
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
			"payment_status": target,
			"payments":       datatypes.JSONSlice[models.PaymentRecord](payments),
		}).Error; err != nil {
			return InternalError("error.internal", fmt.Errorf("update booking status: %w", err))
		}
		b.PaymentStatus = target
		b.Payments = payments
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if target == models.StatusCancelled && from != models.StatusCancelled {
		s.Notify.BookingCancelled(booking)
	}
	return booking, nil
}

// rulesForEdit keeps the agreed price per table but applies the live package's
// included count and extra price; falls back to the snapshot if the package is gone.
func (s *BookingService) rulesForEdit(db *gorm.DB, b *models.Booking) (PricingRules, error) {
	rules := RulesFromSnapshot(b.Package)
	pkg, err := findPackage(db, b.Package.ID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return rules, nil
		}
		return rules, err
	}
	rules.IncludedCount = pkg.IncludedCount()
	rules.ExtraMenuPrice = pkg.ExtraPrice()
	return rules, nil
}

// UpdateMenuSets replaces the menu selection and recomputes the total price.
func (s *BookingService) UpdateMenuSets(actor Actor, id uint, in []MenuSetInput) (*models.Booking, error) {
	var booking *models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.load(tx, id, true)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && b.Customer.ID != actor.UserID {
			return ForbiddenError("booking.notOwner")
		}
		if b.PaymentStatus == models.StatusCancelled {
			return ValidationError("booking.cancelled", nil)
		}

		sets, err := resolveMenuSets(tx, in)
		if err != nil {
			return err
		}
		rules, err := s.rulesForEdit(tx, b)
		if err != nil {
			return err
		}
		quote, err := CalculatePrice(rules, b.TableCount, len(sets))
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
			"menu_sets":   datatypes.JSONSlice[models.MenuSet](sets),
			"total_price": quote.TotalPrice,
		}).Error; err != nil {
			return InternalError("error.internal", fmt.Errorf("update menu sets: %w", err))
		}
		b.MenuSets = sets
		b.TotalPrice = quote.TotalPrice
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel lets a customer cancel their own booking while no money has been paid.
func (s *BookingService) Cancel(actor Actor, id uint) (*models.Booking, error) {
	b, err := s.load(s.DB, id, false)
	if err != nil {
		return nil, err
	}
	if b.Customer.ID != actor.UserID {
		return nil, ForbiddenError("booking.notOwner")
	}
	if b.PaymentStatus != models.StatusPendingDeposit {
		return nil, ForbiddenError("booking.cancelNotAllowed")
	}

	// เงื่อนไข status ใน WHERE กันกรณี staff บันทึกมัดจำพร้อมกัน
	res := s.DB.Model(&models.Booking{}).
		Where("id = ? AND payment_status = ?", id, models.StatusPendingDeposit).
		Update("payment_status", models.StatusCancelled)
	if res.Error != nil {
		return nil, InternalError("error.internal", fmt.Errorf("cancel booking: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, ForbiddenError("booking.cancelNotAllowed")
	}
	b.PaymentStatus = models.StatusCancelled

	s.Notify.BookingCancelled(b)
	return b, nil
}

// Delete hard-deletes a booking together with its review.
func (s *BookingService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return InternalError("error.internal", fmt.Errorf("delete booking review: %w", err))
		}
		res := tx.Delete(&models.Booking{}, id)
		if res.Error != nil {
			return InternalError("error.internal", fmt.Errorf("failed to delete booking: %w", res.Error))
		}
		if res.RowsAffected == 0 {
			return NotFoundError("booking.notFound")
		}
		return nil
	})
}

// DayStatus classifies a day's booking count against the cap.
func DayStatus(count, cap int) string {
	switch {
	case count >= cap:
		return DayFull
	case count > 0:
		return DayPartial
	default:
		return DayAvailable
	}
}

// Availability counts non-cancelled bookings per event date in the booking time zone.
// Event times are stored in UTC so range filters compare consistently on every driver.
func (s *BookingService) Availability(from, to *time.Time) (*Availability, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ValidationError("booking.dateRangeInvalid", nil)
	}
	q := s.DB.Model(&models.Booking{}).
		Select("event_datetime").
		Where("payment_status <> ?", models.StatusCancelled)
	if from != nil {
		q = q.Where("event_datetime >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("event_datetime < ?", to.UTC())
	}
	var rows []models.Booking
	if err := q.Find(&rows).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("availability: %w", err))
	}

	out := &Availability{
		Cap:    s.DailyCap,
		Counts: make(map[string]int),
		Days:   make(map[string]DayAvailability),
	}
	for _, r := range rows {
		out.Counts[utils.DateKey(r.EventDatetime, s.Loc)]++
	}
	for day, n := range out.Counts {
		out.Days[day] = DayAvailability{Count: n, Status: DayStatus(n, s.DailyCap)}
	}
	return out, nil
}

// EventsOn lists non-cancelled bookings whose event falls on day (booking time zone).
func (s *BookingService) EventsOn(day time.Time) ([]models.Booking, error) {
	start := utils.BeginningOfDay(day.In(s.Loc))
	end := start.AddDate(0, 0, 1)
	var out []models.Booking
	err := s.DB.
		Where("payment_status <> ? AND event_datetime >= ? AND event_datetime < ?", models.StatusCancelled, start.UTC(), end.UTC()).
		Order("event_datetime ASC").
		Find(&out).Error
	if err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("events on %s: %w", start.Format("2006-01-02"), err))
	}
	return out, nil
}
