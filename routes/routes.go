package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"catering-backend/controllers"
	"catering-backend/middleware"
	"catering-backend/models"
	"catering-backend/services"
)

// Handlers bundles the controller instances the router wires up.
type Handlers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Menus    *controllers.MenuController
	Packages *controllers.PackageController
	Bookings *controllers.BookingController
	Reviews  *controllers.ReviewController
	Admin    *controllers.AdminController
}

type Options struct {
	CORSOrigins []string
	UploadDir   string
}

// SetupRouter รับ Controller Instances เข้ามาเพื่อกำหนด Route
func SetupRouter(h Handlers, auth *services.AuthService, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	r.Static("/uploads", opts.UploadDir)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.AuthRequired(auth)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Auth.Register)
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.GET("/me", authed, h.Auth.Me)
		}

		menus := api.Group("/menus")
		{
			menus.GET("", h.Menus.GetMenus)
			menus.GET("/:id", h.Menus.GetMenu)
			menus.POST("", authed, adminOnly, h.Menus.CreateMenu)
			menus.PUT("/:id", authed, adminOnly, h.Menus.UpdateMenu)
			menus.DELETE("/:id", authed, adminOnly, h.Menus.DeleteMenu)
			menus.POST("/:id/image", authed, adminOnly, h.Menus.UploadImage)
		}

		packages := api.Group("/menu-packages")
		{
			packages.GET("", h.Packages.GetPackages)
			packages.GET("/:id", h.Packages.GetPackage)
			packages.POST("", authed, adminOnly, h.Packages.CreatePackage)
			packages.PUT("/:id", authed, adminOnly, h.Packages.UpdatePackage)
			packages.DELETE("/:id", authed, adminOnly, h.Packages.DeletePackage)
			packages.POST("/:id/image", authed, adminOnly, h.Packages.UploadImage)
		}

		bookings := api.Group("/bookings")
		{
			// ต้องอยู่ก่อน /:id
			bookings.GET("/availability", h.Bookings.Availability)
			bookings.POST("/quote", authed, h.Bookings.Quote)

			bookings.POST("", authed, middleware.RequireRoles(models.RoleCustomer), h.Bookings.CreateBooking)
			bookings.GET("", authed, h.Bookings.GetBookings)
			bookings.GET("/:id", authed, h.Bookings.GetBooking)
			bookings.PUT("/:id/menu-sets", authed, h.Bookings.UpdateMenuSets)
			bookings.POST("/:id/cancel", authed, h.Bookings.CancelBooking)
			bookings.PUT("/:id/status", authed, adminOnly, h.Bookings.UpdateStatus)
			bookings.DELETE("/:id", authed, adminOnly, h.Bookings.DeleteBooking)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("", h.Reviews.GetReviews)
			reviews.POST("", authed, h.Reviews.CreateReview)
			reviews.PUT("/:id", authed, h.Reviews.UpdateReview)
			reviews.DELETE("/:id", authed, h.Reviews.DeleteReview)
		}

		users := api.Group("/users", authed, adminOnly)
		{
			users.GET("", h.Users.GetUsers)
			users.POST("", h.Users.CreateUser)
			users.GET("/:id", h.Users.GetUser)
			users.PUT("/:id", h.Users.UpdateUser)
			users.DELETE("/:id", h.Users.DeactivateUser)
		}

		admin := api.Group("/admin", authed, adminOnly)
		{
			admin.GET("/dashboard", h.Admin.Dashboard)
			admin.GET("/bookings/export", h.Admin.ExportBookings)
		}
	}

	return r
}
