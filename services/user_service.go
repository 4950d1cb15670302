package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catering-backend/models"
	"catering-backend/utils"
)

const minPasswordLength = 6

var passwordCost = bcrypt.DefaultCost

type UserInput struct {
	Title     string `json:"title"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	IsActive  *bool  `json:"is_active"`
}

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// normalizeUserInput trims fields and validates the contact formats.
// requirePassword is false for updates, where an empty password keeps the old one.
func normalizeUserInput(in *UserInput, requirePassword bool) error {
	in.Title = strings.TrimSpace(in.Title)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = utils.NormalizePhone(in.Phone)
	in.Role = strings.TrimSpace(in.Role)

	if in.Username == "" {
		return ValidationError("error.invalidPayload", nil)
	}
	if !utils.ValidateEmail(in.Email) {
		return ValidationError("user.invalidEmail", nil)
	}
	if !utils.ValidatePhone(in.Phone) {
		return ValidationError("user.invalidPhone", nil)
	}
	if in.Role != "" && !models.IsRole(in.Role) {
		return ValidationError("user.invalidRole", nil)
	}
	if requirePassword || in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return ValidationError("user.passwordShort", map[string]any{"min": minPasswordLength})
		}
	}
	return nil
}

func wrapUserErr(err error, op string) error {
	if IsDuplicateKey(err) {
		switch duplicateField(err, "username", "email", "phone") {
		case "username":
			return ConflictError("user.usernameExists")
		case "email":
			return ConflictError("user.emailExists")
		case "phone":
			return ConflictError("user.phoneExists")
		}
		return ConflictError("user.duplicate")
	}
	return InternalError("error.internal", fmt.Errorf("%s user: %w", op, err))
}

func (s *UserService) List(role string) ([]models.User, error) {
	q := s.DB.Order("id ASC")
	if role != "" {
		if !models.IsRole(role) {
			return nil, ValidationError("user.invalidRole", nil)
		}
		q = q.Where("role = ?", role)
	}
	var out []models.User
	if err := q.Find(&out).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("list users: %w", err))
	}
	return out, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user.notFound")
		}
		return nil, InternalError("error.internal", err)
	}
	return &u, nil
}

// Register creates a customer account; the role field is ignored.
func (s *UserService) Register(in UserInput) (*models.User, error) {
	in.Role = models.RoleCustomer
	in.IsActive = nil
	return s.Create(in)
}

// Create is the admin path and may assign any role.
func (s *UserService) Create(in UserInput) (*models.User, error) {
	if err := normalizeUserInput(&in, true); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("hash password: %w", err))
	}
	u := models.User{
		Title:     in.Title,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  hash,
		Role:      in.Role,
		IsActive:  true,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return wrapUserErr(err, "create")
		}
		// is_active has a DB default, so false must be written explicitly
		if in.IsActive != nil && !*in.IsActive {
			if err := tx.Model(&u).Update("is_active", false).Error; err != nil {
				return InternalError("error.internal", err)
			}
			u.IsActive = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Update(id uint, in UserInput) (*models.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := normalizeUserInput(&in, false); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"title":      in.Title,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"username":   in.Username,
		"email":      in.Email,
		"phone":      in.Phone,
	}
	if in.Role != "" {
		updates["role"] = in.Role
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, InternalError("error.internal", fmt.Errorf("hash password: %w", err))
		}
		updates["password"] = hash
	}
	if err := s.DB.Model(u).Updates(updates).Error; err != nil {
		return nil, wrapUserErr(err, "update")
	}
	return s.Get(id)
}

// Deactivate disables login; bookings keep their customer snapshot.
func (s *UserService) Deactivate(id uint) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return InternalError("error.internal", fmt.Errorf("deactivate user: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError("user.notFound")
	}
	return nil
}

// EnsureDefaultAdmin seeds an admin when no admin account exists yet.
func (s *UserService) EnsureDefaultAdmin(in UserInput) error {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}
	in.Role = models.RoleAdmin
	if in.FirstName == "" {
		in.FirstName = "Admin"
	}
	u, err := s.Create(in)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("✅ Default admin seeded (%s)", u.Username)
	return nil
}
