package services

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catering-backend/models"
)

// diffIDs returns ids present only in old (removed) and only in new (added).
func diffIDs(oldIDs, newIDs []uint) (removed, added []uint) {
	oldSet := make(map[uint]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = struct{}{}
	}
	newSet := make(map[uint]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
		if _, ok := oldSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range oldIDs {
		if _, ok := newSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return removed, added
}

// syncPackageMenus keeps MenuItem.PackageIDs consistent with a package's categories.
// Must run inside the same transaction as the package write.
func syncPackageMenus(tx *gorm.DB, packageID uint, oldMenuIDs, newMenuIDs []uint) error {
	removed, added := diffIDs(oldMenuIDs, newMenuIDs)

	for _, menuID := range removed {
		if err := updateMenuRefs(tx, menuID, func(m *models.MenuItem) bool {
			return removePackageRef(m, packageID)
		}); err != nil {
			return err
		}
	}
	for _, menuID := range added {
		if err := updateMenuRefs(tx, menuID, func(m *models.MenuItem) bool {
			if m.HasPackage(packageID) {
				return false
			}
			m.PackageIDs = append(m.PackageIDs, packageID)
			return true
		}); err != nil {
			return err
		}
	}
	return nil
}

func updateMenuRefs(tx *gorm.DB, menuID uint, mutate func(*models.MenuItem) bool) error {
	var menu models.MenuItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&menu, menuID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// เมนูถูกลบไปแล้ว ไม่มีอะไรต้อง sync
			return nil
		}
		return fmt.Errorf("load menu %d: %w", menuID, err)
	}
	if !mutate(&menu) {
		return nil
	}
	if menu.PackageIDs == nil {
		menu.PackageIDs = []uint{}
	}
	if err := tx.Model(&models.MenuItem{}).Where("id = ?", menuID).
		Update("package_ids", menu.PackageIDs).Error; err != nil {
		return fmt.Errorf("update menu %d package refs: %w", menuID, err)
	}
	return nil
}

func removePackageRef(m *models.MenuItem, packageID uint) bool {
	out := make([]uint, 0, len(m.PackageIDs))
	for _, id := range m.PackageIDs {
		if id != packageID {
			out = append(out, id)
		}
	}
	if len(out) == len(m.PackageIDs) {
		return false
	}
	m.PackageIDs = out
	return true
}

// detachMenuFromPackages removes menuID from every package category that lists it
// and clears the menu's own package refs.
func detachMenuFromPackages(tx *gorm.DB, menu *models.MenuItem) error {
	for _, pkgID := range menu.PackageIDs {
		var pkg models.MenuPackage
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&pkg, pkgID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("load package %d: %w", pkgID, err)
		}
		changed := false
		cats := make([]models.PackageCategory, 0, len(pkg.Categories))
		for _, c := range pkg.Categories {
			items := make([]models.PackageMenuRef, 0, len(c.Items))
			for _, it := range c.Items {
				if it.MenuID == menu.ID {
					changed = true
					continue
				}
				items = append(items, it)
			}
			c.Items = items
			cats = append(cats, c)
		}
		if !changed {
			continue
		}
		if err := tx.Model(&models.MenuPackage{}).Where("id = ?", pkgID).
			Update("categories", datatypes.JSONSlice[models.PackageCategory](cats)).Error; err != nil {
			return fmt.Errorf("update package %d categories: %w", pkgID, err)
		}
	}
	menu.PackageIDs = []uint{}
	return tx.Model(&models.MenuItem{}).Where("id = ?", menu.ID).
		Update("package_ids", menu.PackageIDs).Error
}
