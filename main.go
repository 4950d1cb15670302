package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"catering-backend/config"
	"catering-backend/services"
	"catering-backend/utils"
)

var rootCmd = &cobra.Command{
	Use:   "catering",
	Short: "Catering booking backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env (optional)
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and seed the default admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := config.ConnectDatabase(cfg); err != nil {
			return fmt.Errorf("database connect failed: %w", err)
		}
		if err := services.NewUserService(config.DB).EnsureDefaultAdmin(defaultAdmin(cfg)); err != nil {
			return err
		}
		log.Println("✅ Migrations applied")
		return nil
	},
}

var exportOut string
var exportStatus string

var exportCmd = &cobra.Command{
	Use:   "export-bookings",
	Short: "Write bookings to an XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := config.Open(cfg)
		if err != nil {
			return fmt.Errorf("database connect failed: %w", err)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := services.NewAdminService(db, cfg.Location).ExportBookings(f, services.BookingFilter{Status: exportStatus})
		if err != nil {
			return err
		}
		log.Printf("✅ Exported %d bookings to %s", n, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "bookings.xlsx", "output file")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "only bookings with this payment status")
	rootCmd.AddCommand(serveCmd, migrateCmd, exportCmd)
}

func defaultAdmin(cfg *config.Config) services.UserInput {
	return services.UserInput{
		FirstName: "Admin",
		Username:  cfg.AdminUsername,
		Email:     cfg.AdminEmail,
		Phone:     cfg.AdminPhone,
		Password:  cfg.AdminPassword,
	}
}

func newNotifier(cfg *config.Config) services.Notifier {
	switch cfg.NotifyChannel {
	case "line":
		if cfg.LineChannelToken != "" && cfg.LineTargetID != "" {
			return services.NewLineNotifier(cfg.LineChannelToken, cfg.LineTargetID)
		}
		log.Println("⚠️  NOTIFY_CHANNEL=line but LINE_CHANNEL_TOKEN/LINE_TARGET_ID missing; using log notifier")
	case "twilio":
		if cfg.TwilioSID != "" && cfg.TwilioToken != "" {
			return services.NewTwilioNotifier(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, cfg.TwilioTo)
		}
		log.Println("⚠️  NOTIFY_CHANNEL=twilio but TWILIO credentials missing; using log notifier")
	}
	return services.LogNotifier{}
}

func serve() error {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		return fmt.Errorf("database connect failed: %w", err)
	}
	db := config.DB
	log.Println("✅ Database connection established and migrations applied.")

	users := services.NewUserService(db)
	if err := users.EnsureDefaultAdmin(defaultAdmin(cfg)); err != nil {
		log.Printf("⚠️  %v", err)
	}

	utils.RegisterValidators()
	app := newApp(db, cfg, newNotifier(cfg))

	reminders := services.NewReminderService(app.bookings, services.NewSyncNotificationService(newNotifier(cfg), cfg.Location), cfg.ReminderCron)
	if err := reminders.Start(); err != nil {
		log.Printf("⚠️  reminders disabled: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	reminders.Stop()
	app.notify.Wait()

	log.Println("✅ Server stopped gracefully")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
