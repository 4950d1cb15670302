package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"regexp"
	"strings"
	"time"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

const digitCharset = "0123456789"

// RandomDigits คืนตัวเลขสุ่ม n หลัก (crypto/rand + math/big เพื่อลด modulo bias)
func RandomDigits(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	max := big.NewInt(int64(len(digitCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(digitCharset[num.Int64()])
	}
	return sb.String(), nil
}

var bookingCodeRe = regexp.MustCompile(`^BK-\d{8}\d{4}$`)

// GenerateBookingCode → "BK-YYYYMMDD####" using the calendar date of t.
func GenerateBookingCode(t time.Time) (string, error) {
	suffix, err := RandomDigits(4)
	if err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}
	return "BK-" + t.Format("20060102") + suffix, nil
}

func IsValidBookingCode(code string) bool {
	return bookingCodeRe.MatchString(code)
}

// LoadLocation resolves a tz name, falling back to a fixed UTC+7 zone when tzdata is missing.
func LoadLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}

// DateKey formats t as YYYY-MM-DD in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// BeginningOfDay returns midnight of t's calendar day in t's location.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
