package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catering-backend/models"
)

type PackageCategoryInput struct {
	Category string                  `json:"category"`
	Quota    int                     `json:"quota" binding:"min=0"`
	Items    []models.PackageMenuRef `json:"items"`
}

type PackageInput struct {
	Name           string                 `json:"name" binding:"required,max=150"`
	Description    string                 `json:"description"`
	PricePerTable  decimal.Decimal        `json:"price_per_table"`
	MaxSelections  int                    `json:"max_selections" binding:"min=0"`
	ExtraMenuPrice *decimal.Decimal       `json:"extra_menu_price"`
	Categories     []PackageCategoryInput `json:"categories" binding:"dive"`
	IsActive       *bool                  `json:"is_active"`
}

// PackageService จัดการแพ็กเกจอาหาร และ sync การอ้างอิงไปยังเมนู
type PackageService struct {
	DB *gorm.DB
}

func NewPackageService(db *gorm.DB) *PackageService {
	return &PackageService{DB: db}
}

func (s *PackageService) List(activeOnly bool) ([]models.MenuPackage, error) {
	q := s.DB.Model(&models.MenuPackage{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.MenuPackage
	if err := q.Order("price_per_table ASC").Find(&out).Error; err != nil {
		return nil, InternalError("error.internal", fmt.Errorf("list packages: %w", err))
	}
	return out, nil
}

func (s *PackageService) Get(id uint) (*models.MenuPackage, error) {
	return findPackage(s.DB, id)
}

func findPackage(db *gorm.DB, id uint) (*models.MenuPackage, error) {
	var p models.MenuPackage
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("package.notFound")
		}
		return nil, InternalError("error.internal", fmt.Errorf("get package %d: %w", id, err))
	}
	return &p, nil
}

// buildPackage validates the input against the menu table and fills pkg.
func (s *PackageService) buildPackage(tx *gorm.DB, in PackageInput, pkg *models.MenuPackage) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ValidationError("package.nameRequired", nil)
	}
	if !in.PricePerTable.IsPositive() {
		return ValidationError("package.priceInvalid", nil)
	}
	extra := models.DefaultExtraMenuPrice
	if in.ExtraMenuPrice != nil {
		// ส่งมาแล้วต้องมากกว่า 0; ไม่ส่งใช้ค่า default
		if !in.ExtraMenuPrice.IsPositive() {
			return ValidationError("package.extraPriceInvalid", nil)
		}
		extra = *in.ExtraMenuPrice
	}

	cats := make([]models.PackageCategory, 0, len(in.Categories))
	quotaSum := 0
	menuIDs := make([]uint, 0)
	for _, c := range in.Categories {
		category := strings.ToLower(strings.TrimSpace(c.Category))
		if !models.IsMenuCategory(category) {
			return ValidationError("package.invalidCategory", map[string]any{"category": c.Category})
		}
		items := make([]models.PackageMenuRef, 0, len(c.Items))
		seen := map[uint]bool{}
		for _, it := range c.Items {
			if seen[it.MenuID] {
				continue
			}
			seen[it.MenuID] = true
			items = append(items, it)
			menuIDs = append(menuIDs, it.MenuID)
		}
		quotaSum += c.Quota
		cats = append(cats, models.PackageCategory{
			Category: category,
			Quota:    c.Quota,
			Items:    items,
		})
	}

	included := in.MaxSelections
	switch {
	case included <= 0 && quotaSum > 0:
		included = quotaSum
	case included <= 0:
		included = models.DefaultIncludedMenus
	case quotaSum > 0 && quotaSum != included:
		return ValidationError("package.quotaMismatch", map[string]any{"sum": quotaSum, "included": included})
	}

	menus, err := loadMenus(tx, menuIDs)
	if err != nil {
		return err
	}
	for _, id := range menuIDs {
		m, ok := menus[id]
		if !ok {
			return ValidationError("package.menuNotFound", map[string]any{"menu_id": id})
		}
		if !m.IsActive {
			return ValidationError("menu.inactive", map[string]any{"code": m.Code})
		}
	}

	pkg.Name = name
	pkg.Description = strings.TrimSpace(in.Description)
	pkg.PricePerTable = in.PricePerTable
	pkg.MaxSelections = included
	pkg.ExtraMenuPrice = extra
	pkg.Categories = cats
	if in.IsActive != nil {
		pkg.IsActive = *in.IsActive
	}
	return nil
}

func (s *PackageService) Create(in PackageInput) (*models.MenuPackage, error) {
	pkg := models.MenuPackage{IsActive: true}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.buildPackage(tx, in, &pkg); err != nil {
			return err
		}
		active := pkg.IsActive
		if err := tx.Create(&pkg).Error; err != nil {
			return err
		}
		// default:true ทำให้ค่า false ไม่ถูกบันทึกตอน Create
		if !active {
			if err := tx.Model(&pkg).Update("is_active", false).Error; err != nil {
				return err
			}
			pkg.IsActive = false
		}
		return syncPackageMenus(tx, pkg.ID, nil, pkg.MenuIDs())
	})
	if err != nil {
		return nil, wrapPackageErr(err, "create package")
	}
	return &pkg, nil
}

func (s *PackageService) Update(id uint, in PackageInput) (*models.MenuPackage, error) {
	var pkg models.MenuPackage
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findPackage(tx, id)
		if err != nil {
			return err
		}
		oldMenuIDs := current.MenuIDs()
		pkg = *current
		if err := s.buildPackage(tx, in, &pkg); err != nil {
			return err
		}
		if err := tx.Model(&models.MenuPackage{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":             pkg.Name,
			"description":      pkg.Description,
			"price_per_table":  pkg.PricePerTable,
			"max_selections":   pkg.MaxSelections,
			"extra_menu_price": pkg.ExtraMenuPrice,
			"categories":       datatypes.JSONSlice[models.PackageCategory](pkg.Categories),
			"is_active":        pkg.IsActive,
		}).Error; err != nil {
			return err
		}
		if err := syncPackageMenus(tx, id, oldMenuIDs, pkg.MenuIDs()); err != nil {
			return err
		}
		return tx.First(&pkg, id).Error
	})
	if err != nil {
		return nil, wrapPackageErr(err, "update package")
	}
	return &pkg, nil
}

// Delete removes the package and its references from every menu.
// Bookings keep their own snapshot and are not touched.
func (s *PackageService) Delete(id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		pkg, err := findPackage(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.MenuPackage{}, id).Error; err != nil {
			return err
		}
		return syncPackageMenus(tx, id, pkg.MenuIDs(), nil)
	})
	if err != nil {
		return wrapPackageErr(err, "delete package")
	}
	return nil
}

func (s *PackageService) SetImage(id uint, path string) (*models.MenuPackage, string, error) {
	pkg, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	if err := s.DB.Model(&models.MenuPackage{}).Where("id = ?", id).Update("image", path).Error; err != nil {
		return nil, "", InternalError("error.internal", fmt.Errorf("set package image: %w", err))
	}
	old := pkg.Image
	pkg.Image = path
	return pkg, old, nil
}

func wrapPackageErr(err error, op string) error {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	if IsDuplicateKey(err) {
		switch duplicateField(err, "name", "price") {
		case "name":
			return ConflictError("package.nameExists")
		case "price":
			return ConflictError("package.priceExists")
		}
		return ConflictError("package.duplicate")
	}
	return InternalError("error.internal", fmt.Errorf("%s: %w", op, err))
}
