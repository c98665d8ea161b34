package main

import (
	adminhandler "laurent/internal/admin/handler"
	adminrepo "laurent/internal/admin/repository"
	adminservice "laurent/internal/admin/service"
	authhandler "laurent/internal/auth/handler"
	authrepo "laurent/internal/auth/repository"
	authservice "laurent/internal/auth/service"
	bookinghandler "laurent/internal/bookings/handler"
	bookingrepo "laurent/internal/bookings/repository"
	bookingservice "laurent/internal/bookings/service"
	bookingvalidator "laurent/internal/bookings/validator"
	customerhandler "laurent/internal/customers/handler"
	customerrepo "laurent/internal/customers/repository"
	customerservice "laurent/internal/customers/service"
	customervalidator "laurent/internal/customers/validator"
	"laurent/internal/events"
	"laurent/internal/health"
	menuhandler "laurent/internal/menus/handler"
	menurepo "laurent/internal/menus/repository"
	menuservice "laurent/internal/menus/service"
	"laurent/internal/menus/storage"
	settingshandler "laurent/internal/settings/handler"
	settingsrepo "laurent/internal/settings/repository"
	settingsservice "laurent/internal/settings/service"
	settingsvalidator "laurent/internal/settings/validator"
	timeslothandler "laurent/internal/timeslots/handler"
	timeslotrepo "laurent/internal/timeslots/repository"
	timeslotservice "laurent/internal/timeslots/service"
	"laurent/pkg/app"
	"laurent/pkg/config"
	"laurent/pkg/contracts"
	mongotx "laurent/pkg/db/mongo"
	"laurent/pkg/kafka"
	kafka_config "laurent/pkg/kafka/config"
	kafka_middleware "laurent/pkg/kafka/middleware"
	"laurent/pkg/middleware"
)

const ServiceName = "restaurant"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting restaurant API")
	serverApp := app.NewApplication(cfg)

	publisher, closePublisher := initPublisher(cfg)
	if closePublisher != nil {
		serverApp.OnShutdown(closePublisher)
	}

	files, err := storage.NewFileStore(cfg.UploadsDir)
	if err != nil {
		cfg.Log.Fatal("Failed to prepare uploads directory", "dir", cfg.UploadsDir, "error", err)
	}

	serverApp.SetApp(files.Dir(), initHandlers(cfg, publisher, files)...)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) (events.Publisher, func() error) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka brokers not configured, domain events disabled")
		return events.NewNoopPublisher(), nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log.Component("kafka")))
	}

	cfg.Log.Info("Kafka producer initialized", "brokers", kafkaCfg.Brokers, "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, cfg.Log.Component("events")), producer.Close
}

func initHandlers(cfg *config.Config, publisher events.Publisher, files *storage.FileStore) []contracts.Handler {
	txManager := mongotx.NewManager(cfg.Client.Mongo, cfg.MongoTransactions)
	adminAuth := middleware.NewAdminAuth(cfg.AdminToken, cfg.Log)

	timeSlotService := timeslotservice.NewTimeSlotService(
		timeslotrepo.NewMongoTimeSlotRepository(cfg),
		cfg.Log.Component("timeslots"),
	)

	customerService := customerservice.NewCustomerService(
		customerrepo.NewMongoCustomerRepository(cfg),
		customervalidator.NewCustomerValidator(cfg.Log),
		cfg,
	)

	bookingService := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingrepo.NewBookingLockRepository(cfg),
		txManager,
		bookingvalidator.NewBookingValidator(cfg.Log, cfg.MaxGuests),
		timeSlotService,
		customerService,
		publisher,
		cfg,
	)

	menuService := menuservice.NewMenuService(
		menurepo.NewMongoMenuRepository(cfg),
		files,
		txManager,
		publisher,
		cfg,
	)

	settingsService := settingsservice.NewSettingsService(
		settingsrepo.NewMongoSettingsRepository(cfg),
		settingsvalidator.NewSettingsValidator(),
		cfg,
	)

	authService := authservice.NewAuthService(authrepo.NewMongoUserRepository(cfg), cfg)
	adminService := adminservice.NewAdminService(adminrepo.NewMongoDatasetRepository(cfg), files, cfg)

	cfg.Log.Info("Services initialized",
		"database", cfg.MongoDatabaseName,
		"transactions", txManager.Transactional(),
	)

	return []contracts.Handler{
		health.NewHealthHandler(cfg.Client, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		customerhandler.NewCustomerHandler(customerService, cfg.Log),
		timeslothandler.NewTimeSlotHandler(timeSlotService, cfg.Log),
		menuhandler.NewMenuHandler(menuService, adminAuth, cfg.MaxUploadSize, cfg.Log),
		settingshandler.NewSettingsHandler(settingsService, cfg.Log),
		authhandler.NewAuthHandler(authService, cfg.Log),
		adminhandler.NewAdminHandler(adminService, adminAuth, cfg.Log),
	}
}
