package utils

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"catering-backend/models"
)

var (
	thaiPhoneRe = regexp.MustCompile(`^0\d{9}$`)
	emailRe     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// NormalizePhone strips spaces, dashes and brackets.
func NormalizePhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return r.Replace(strings.TrimSpace(phone))
}

// ValidatePhone checks a Thai mobile number: 10 digits starting with 0.
func ValidatePhone(phone string) bool {
	return thaiPhoneRe.MatchString(NormalizePhone(phone))
}

func ValidateEmail(email string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// RegisterValidators adds the thphone and bookingstatus tags to gin's validator.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("thphone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, st := range models.BookingStatuses {
			if st == s {
				return true
			}
		}
		return false
	})
}
