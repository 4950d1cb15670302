// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ReminderService sends the next day's event list to staff on a cron schedule.
type ReminderService struct {
	bookings *BookingService
	notify   *NotificationService
	spec     string
	cron     *cron.Cron
	now      func() time.Time
}

func NewReminderService(bookings *BookingService, notify *NotificationService, spec string) *ReminderService {
	if spec == "" {
		spec = "0 9 * * *"
	}
	return &ReminderService{
		bookings: bookings,
		notify:   notify,
		spec:     spec,
		cron:     cron.New(cron.WithLocation(bookings.Loc)),
		now:      time.Now,
	}
}

func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.SendTomorrow(); err != nil {
			log.Printf("⚠️ reminder job failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Printf("⏰ Reminder scheduler started (%s)", s.spec)
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// SendTomorrow notifies about tomorrow's events and returns how many there were.
func (s *ReminderService) SendTomorrow() (int, error) {
	tomorrow := s.now().In(s.bookings.Loc).AddDate(0, 0, 1)
	events, err := s.bookings.EventsOn(tomorrow)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		log.Printf("reminder: no events on %s", tomorrow.Format("2006-01-02"))
		return 0, nil
	}
	s.notify.UpcomingEvents(tomorrow, events)
	return len(events), nil
}
