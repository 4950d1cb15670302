package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catering-backend/models"
)

func init() {
	passwordCost = bcrypt.MinCost
}

var (
	testLoc  = time.FixedZone("ICT", 7*60*60)
	phoneSeq int
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.MenuPackage{},
		&models.Booking{},
		&models.Review{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	phoneSeq++
	u, err := NewUserService(db).Create(UserInput{
		FirstName: username,
		Username:  username,
		Email:     username + "@example.com",
		Phone:     fmt.Sprintf("08%08d", phoneSeq),
		Password:  "secret123",
		Role:      role,
	})
	require.NoError(t, err)
	return u
}

// seedMenus creates n active menus in the given category.
func seedMenus(t *testing.T, db *gorm.DB, prefix, category string, n int) []models.MenuItem {
	t.Helper()
	svc := NewMenuService(db)
	out := make([]models.MenuItem, 0, n)
	for i := 1; i <= n; i++ {
		m, err := svc.Create(MenuInput{
			Code:     fmt.Sprintf("%s%02d", prefix, i),
			Name:     fmt.Sprintf("%s menu %d", prefix, i),
			Category: category,
		})
		require.NoError(t, err)
		out = append(out, *m)
	}
	return out
}

func seedPackage(t *testing.T, db *gorm.DB, name string, price int64, included int, menus []models.MenuItem) *models.MenuPackage {
	t.Helper()
	items := make([]models.PackageMenuRef, 0, len(menus))
	for _, m := range menus {
		items = append(items, models.PackageMenuRef{MenuID: m.ID})
	}
	in := PackageInput{
		Name:          name,
		PricePerTable: decimal.NewFromInt(price),
		MaxSelections: included,
	}
	if len(items) > 0 {
		in.Categories = []PackageCategoryInput{{Category: models.CategoryMainCourse, Items: items}}
	}
	p, err := NewPackageService(db).Create(in)
	require.NoError(t, err)
	return p
}

func menuSets(menus []models.MenuItem) []MenuSetInput {
	out := make([]MenuSetInput, 0, len(menus))
	for _, m := range menus {
		out = append(out, MenuSetInput{MenuID: m.ID, Quantity: 1})
	}
	return out
}

// stubNotifier records messages instead of sending them.
type stubNotifier struct {
	messages []string
	err      error
}

func (s *stubNotifier) Notify(_ context.Context, text string) error {
	s.messages = append(s.messages, text)
	return s.err
}
