package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"catering-backend/models"
)

// Notifier pushes a plain-text message to staff (chat bot, SMS, ...).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// LogNotifier is used when no channel is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, text string) error {
	log.Printf("[MOCK NOTIFY] %s", strings.ReplaceAll(text, "\n", " | "))
	return nil
}

// NotificationService formats booking events and sends them without blocking the caller.
// Failures are logged only.
type NotificationService struct {
	notifier Notifier
	loc      *time.Location
	timeout  time.Duration
	async    bool
	wg       sync.WaitGroup
}

func NewNotificationService(n Notifier, loc *time.Location) *NotificationService {
	if n == nil {
		n = LogNotifier{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &NotificationService{notifier: n, loc: loc, timeout: 10 * time.Second, async: true}
}

// NewSyncNotificationService sends inline; used by the reminder job and tests.
func NewSyncNotificationService(n Notifier, loc *time.Location) *NotificationService {
	s := NewNotificationService(n, loc)
	s.async = false
	return s
}

func (s *NotificationService) BookingCreated(b *models.Booking) {
	if s == nil || b == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("📢 มีการจองใหม่\n")
	sb.WriteString(fmt.Sprintf("รหัส: %s\n", b.BookingCode))
	sb.WriteString(fmt.Sprintf("ลูกค้า: %s (%s)\n", b.Customer.Name, b.Customer.Phone))
	sb.WriteString(fmt.Sprintf("แพ็กเกจ: %s x %d โต๊ะ\n", b.Package.Name, b.TableCount))
	sb.WriteString(fmt.Sprintf("วันงาน: %s\n", b.EventDatetime.In(s.loc).Format("02/01/2006 15:04")))
	sb.WriteString(fmt.Sprintf("สถานที่: %s\n", b.Location.Address))
	sb.WriteString(fmt.Sprintf("ราคารวม: %s บาท (มัดจำ %s บาท)", b.TotalPrice.StringFixed(2), b.DepositRequired.StringFixed(2)))
	s.dispatch("booking.created "+b.BookingCode, sb.String())
}

func (s *NotificationService) BookingCancelled(b *models.Booking) {
	if s == nil || b == nil {
		return
	}
	text := fmt.Sprintf("❌ ยกเลิกการจอง\nรหัส: %s\nลูกค้า: %s\nวันงาน: %s",
		b.BookingCode, b.Customer.Name, b.EventDatetime.In(s.loc).Format("02/01/2006 15:04"))
	s.dispatch("booking.cancelled "+b.BookingCode, text)
}

// UpcomingEvents sends one summary for the bookings of a given day.
func (s *NotificationService) UpcomingEvents(day time.Time, bookings []models.Booking) {
	if s == nil || len(bookings) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓️ งานวันที่ %s (%d งาน)\n", day.In(s.loc).Format("02/01/2006"), len(bookings)))
	for i, b := range bookings {
		sb.WriteString(fmt.Sprintf("%d. %s %s %s x %d โต๊ะ @ %s\n",
			i+1, b.EventDatetime.In(s.loc).Format("15:04"), b.BookingCode, b.Package.Name, b.TableCount, b.Location.Address))
	}
	s.dispatch("reminder "+day.In(s.loc).Format("2006-01-02"), strings.TrimRight(sb.String(), "\n"))
}

func (s *NotificationService) dispatch(label, text string) {
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, text); err != nil {
			log.Printf("⚠️ notify %s failed: %v", label, err)
			return
		}
		log.Printf("✅ notify %s sent", label)
	}
	if !s.async {
		send()
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		send()
	}()
}

// Wait blocks until in-flight notifications finish.
func (s *NotificationService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}
