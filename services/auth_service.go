package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"catering-backend/models"
	"catering-backend/utils"
)

// AuthService issues and verifies HS256 bearer tokens.
type AuthService struct {
	DB     *gorm.DB
	Secret []byte
	Expiry time.Duration
	now    func() time.Time
}

type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func NewAuthService(db *gorm.DB, secret string, expiry time.Duration) *AuthService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &AuthService{DB: db, Secret: []byte(secret), Expiry: expiry, now: time.Now}
}

// Login accepts username, email or phone as the identifier.
func (s *AuthService) Login(in LoginInput) (*LoginResult, error) {
	id := strings.TrimSpace(in.Identifier)
	if id == "" || in.Password == "" {
		return nil, ValidationError("error.invalidPayload", nil)
	}
	var u models.User
	err := s.DB.
		Where("username = ? OR email = ? OR phone = ?", id, strings.ToLower(id), utils.NormalizePhone(id)).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, UnauthorizedError("auth.invalidCredentials")
		}
		return nil, InternalError("error.internal", err)
	}
	if !CheckPassword(u.Password, in.Password) {
		return nil, UnauthorizedError("auth.invalidCredentials")
	}
	if !u.IsActive {
		return nil, UnauthorizedError("auth.userInactive")
	}

	token, exp, err := s.Issue(&u)
	if err != nil {
		return nil, InternalError("error.internal", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: &u}, nil
}

func (s *AuthService) Issue(u *models.User) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("JWT secret not set")
	}
	now := s.now()
	exp := now.Add(s.Expiry)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(u.ID), 10),
		"role": u.Role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Authenticate verifies the token and re-reads the user so deactivation and
// role changes take effect immediately.
func (s *AuthService) Authenticate(raw string) (*models.User, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, UnauthorizedError("auth.tokenInvalid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, UnauthorizedError("auth.tokenInvalid")
	}
	sub, _ := claims.GetSubject()
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return nil, UnauthorizedError("auth.tokenInvalid")
	}

	var u models.User
	if err := s.DB.First(&u, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, UnauthorizedError("auth.tokenInvalid")
		}
		return nil, InternalError("error.internal", err)
	}
	if !u.IsActive {
		return nil, UnauthorizedError("auth.userInactive")
	}
	return &u, nil
}
