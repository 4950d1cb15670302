package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catering-backend/models"
)

type MenuInput struct {
	Code        string   `json:"code" binding:"required,max=50"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"is_active"`
}

type MenuFilter struct {
	Category   string
	ActiveOnly bool
	Query      string
}

// MenuService จัดการข้อมูลเมนูอาหาร
type MenuService struct {
	DB *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db}
}

func normalizeMenuInput(in *MenuInput) error {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Code == "" {
		return ValidationError("menu.codeRequired", nil)
	}
	if in.Name == "" {
		return ValidationError("menu.nameRequired", nil)
	}
	if !models.IsMenuCategory(in.Category) {
		return ValidationError("menu.invalidCategory", nil)
	}
	tags := make([]string, 0, len(in.Tags))
	seen := map[string]bool{}
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	in.Tags = tags
	return nil
}

func (s *MenuService) List(f MenuFilter) ([]models.MenuItem, error) {
	q := s.DB.Model(&models.MenuItem{})
	if f.Category != "" {
		q = q.Where("category = ?", strings.ToLower(f.Category))
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}
	var out []models.MenuItem
	if err := q.Order("category ASC, code ASC").Find(&out).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("list menus: %w", err))
	}
	return out, nil
}

func (s *MenuService) Get(id uint) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := s.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("menu.notFound")
		}
		return nil, InternalError("error.internal", fmt.Errorf("get menu %d: %w", id, err))
	}
	return &m, nil
}

func (s *MenuService) Create(in MenuInput) (*models.MenuItem, error) {
	if err := normalizeMenuInput(&in); err != nil {
		return nil, err
	}
	m := models.MenuItem{
		Code:        in.Code,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Tags:        in.Tags,
		PackageIDs:  []uint{},
		IsActive:    true,
	}
	if err := s.DB.Create(&m).Error; err != nil {
		if IsDuplicateKey(err) {
			return nil, ConflictError("menu.codeExists")
		}
		return nil, InternalError("error.internal", fmt.Errorf("create menu: %w", err))
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := s.DB.Model(&m).Update("is_active", false).Error; err != nil {
			return nil, InternalError("error.internal", fmt.Errorf("deactivate menu: %w", err))
		}
		m.IsActive = false
	}
	return &m, nil
}

// Update edits menu fields. Deactivating a menu detaches it from every package.
func (s *MenuService) Update(id uint, in MenuInput) (*models.MenuItem, error) {
	if err := normalizeMenuInput(&in); err != nil {
		return nil, err
	}

	var out models.MenuItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("menu.notFound")
			}
			return err
		}

		updates := map[string]interface{}{
			"code":        in.Code,
			"name":        in.Name,
			"description": strings.TrimSpace(in.Description),
			"category":    in.Category,
			"tags":        datatypes.JSONSlice[string](in.Tags),
		}
		if in.IsActive != nil {
			updates["is_active"] = *in.IsActive
		}
		if err := tx.Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if in.IsActive != nil && !*in.IsActive {
			if err := detachMenuFromPackages(tx, &out); err != nil {
				return err
			}
		}
		return tx.First(&out, id).Error
	})
	if err != nil {
		return nil, s.wrapWriteErr(err, "update menu")
	}
	return &out, nil
}

// Delete soft-deletes (is_active=false) and removes the menu from all packages.
func (s *MenuService) Delete(id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var m models.MenuItem
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("menu.notFound")
			}
			return err
		}
		if err := detachMenuFromPackages(tx, &m); err != nil {
			return err
		}
		return tx.Model(&models.MenuItem{}).Where("id = ?", id).Update("is_active", false).Error
	})
	if err != nil {
		return s.wrapWriteErr(err, "delete menu")
	}
	return nil
}

// SetImage stores the new image path and returns the updated menu and the previous path.
func (s *MenuService) SetImage(id uint, path string) (*models.MenuItem, string, error) {
	m, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	if err := s.DB.Model(&models.MenuItem{}).Where("id = ?", id).Update("image", path).Error; err != nil {
		return nil, "", InternalError("error.internal", fmt.Errorf("set menu image: %w", err))
	}
	old := m.Image
	m.Image = path
	return m, old, nil
}

// loadMenus loads menus keyed by id.
func loadMenus(db *gorm.DB, ids []uint) (map[uint]models.MenuItem, error) {
	out := make(map[uint]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var menus []models.MenuItem
	if err := db.Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}
	for _, m := range menus {
		out[m.ID] = m
	}
	return out, nil
}

func (s *MenuService) wrapWriteErr(err error, op string) error {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	if IsDuplicateKey(err) {
		return ConflictError("menu.codeExists")
	}
	return InternalError("error.internal", fmt.Errorf("%s: %w", op, err))
}
