package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"catering-backend/config"
	"catering-backend/controllers"
	"catering-backend/routes"
	"catering-backend/services"
)

type app struct {
	router   *gin.Engine
	bookings *services.BookingService
	notify   *services.NotificationService
}

// newApp wires services and controllers onto db.
func newApp(db *gorm.DB, cfg *config.Config, notifier services.Notifier) *app {
	notify := services.NewNotificationService(notifier, cfg.Location)
	uploads := services.NewUploadService(cfg.UploadDir)

	users := services.NewUserService(db)
	auth := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry)
	menus := services.NewMenuService(db)
	packages := services.NewPackageService(db)
	bookings := services.NewBookingService(db, notify, cfg.Location, cfg.DailyCap)
	reviews := services.NewReviewService(db)
	admin := services.NewAdminService(db, cfg.Location)

	router := routes.SetupRouter(routes.Handlers{
		Auth:     controllers.NewAuthController(auth, users),
		Users:    controllers.NewUserController(users),
		Menus:    controllers.NewMenuController(menus, uploads),
		Packages: controllers.NewPackageController(packages, uploads),
		Bookings: controllers.NewBookingController(bookings, uploads),
		Reviews:  controllers.NewReviewController(reviews),
		Admin:    controllers.NewAdminController(admin),
	}, auth, routes.Options{CORSOrigins: cfg.CORSOrigins, UploadDir: cfg.UploadDir})

	return &app{router: router, bookings: bookings, notify: notify}
}
