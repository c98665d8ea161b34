package main

import (
	"context"
	"os"
	"time"

	adminrepo "laurent/internal/admin/repository"
	"laurent/internal/auth"
	authrepo "laurent/internal/auth/repository"
	bookingrepo "laurent/internal/bookings/repository"
	customerrepo "laurent/internal/customers/repository"
	settingsrepo "laurent/internal/settings/repository"
	"laurent/pkg/config"
	"laurent/pkg/model"
)

const (
	JobName = "seed"

	EnvSeedAdminPassword     = "SEED_ADMIN_PASSWORD"
	DefaultSeedAdminPassword = "admin123"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	if err := seed(ctx, cfg); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Seed failed", "error", err)
	}
	cfg.Log.Info("Database seed completed successfully")
}

func seed(ctx context.Context, cfg *config.Config) error {
	dataset := adminrepo.NewMongoDatasetRepository(cfg)
	for _, collection := range []string{
		authrepo.CollectionName,
		customerrepo.CollectionName,
		bookingrepo.CollectionName,
		settingsrepo.CollectionName,
	} {
		n, err := dataset.Clear(ctx, collection)
		if err != nil {
			return err
		}
		cfg.Log.Info("Cleared collection", "collection", collection, "deleted", n)
	}

	password := os.Getenv(EnvSeedAdminPassword)
	if password == "" {
		password = DefaultSeedAdminPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     model.AdminUsername,
		PasswordHash: hash,
		Name:         "Restaurant Admin",
		Role:         model.RoleAdmin,
	}
	if err := authrepo.NewMongoUserRepository(cfg).Ensure(ctx, admin); err != nil {
		return err
	}
	cfg.Log.Info("Admin user created", "username", admin.Username, "default_password", password == DefaultSeedAdminPassword)

	if _, err := settingsrepo.NewMongoSettingsRepository(cfg).Get(ctx); err != nil {
		return err
	}
	cfg.Log.Info("Settings created")

	customers := customerrepo.NewMongoCustomerRepository(cfg)
	for _, c := range sampleCustomers() {
		if err := customers.Create(ctx, c); err != nil {
			return err
		}
	}
	cfg.Log.Info("Customers created", "count", len(sampleCustomers()))

	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	for _, b := range sampleBookings() {
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
	}
	cfg.Log.Info("Bookings created", "count", len(sampleBookings()))
	return nil
}

func day(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)
	return t
}

func visit(value string) *time.Time {
	t := day(value)
	return &t
}

func sampleCustomers() []*model.Customer {
	return []*model.Customer{
		{Name: "John Doe", Email: "john@example.com", Phone: "+1 234 567 8900", Visits: 5, LastVisit: visit("2025-08-28")},
		{Name: "Jane Smith", Email: "jane@example.com", Phone: "+1 234 567 8901", Visits: 3, LastVisit: visit("2025-08-25")},
		{Name: "Mike Johnson", Email: "mike@example.com", Phone: "+1 234 567 8902", Visits: 8, LastVisit: visit("2025-08-30")},
		{Name: "Sarah Wilson", Email: "sarah@example.com", Phone: "+1 234 567 8903", Visits: 2, LastVisit: visit("2025-08-20")},
	}
}

func sampleBookings() []*model.Booking {
	return []*model.Booking{
		{
			CustomerName:    "John Doe",
			CustomerEmail:   "john@example.com",
			CustomerPhone:   "+1 234 567 8900",
			Date:            day("2025-09-01"),
			Time:            "19:30:00",
			Guests:          4,
			TableNumber:     5,
			Status:          model.StatusConfirmed,
			SpecialRequests: "Anniversary dinner",
		},
		{
			CustomerName:    "Jane Smith",
			CustomerEmail:   "jane@example.com",
			CustomerPhone:   "+1 234 567 8901",
			Date:            day("2025-09-03"),
			Time:            "20:00:00",
			Guests:          2,
			TableNumber:     3,
			Status:          model.StatusPending,
			SpecialRequests: "Vegetarian options",
		},
	}
}
