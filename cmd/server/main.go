package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/atelierhq/workshop-studio/internal/config"
	"github.com/atelierhq/workshop-studio/internal/database"
	"github.com/atelierhq/workshop-studio/internal/email"
	"github.com/atelierhq/workshop-studio/internal/handler"
	"github.com/atelierhq/workshop-studio/internal/queue"
	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/router"
	"github.com/atelierhq/workshop-studio/internal/service"
)

func main() {
	cfg := config.Load()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(initCtx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Init(initCtx, db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.Fatalf("database init: %v", err)
	}

	workshops := repository.NewWorkshopRepo(db)
	customers := repository.NewCustomerRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	notes := repository.NewNoteRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	messages := repository.NewContactRepo(db)
	store := database.NewStore(db)

	var sender email.Sender = email.NopSender{}
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	}
	renderer := email.Renderer{BaseURL: cfg.PublicBaseURL}

	// With a broker the API publishes events and the in-process
	// consumer mails them; without one mail goes out directly.
	var notifier service.Notifier
	if cfg.AMQPURL != "" {
		notifier = queue.NewPublisher(cfg.AMQPURL)
		queue.NewConsumer(cfg.AMQPURL, sender, renderer).Start()
	} else {
		notifier = email.NewDirectNotifier(sender, renderer)
	}

	enrollSvc := service.NewEnrollmentService(store, notifier)
	accountSvc := service.NewAccountService(store, notifier, cfg.BcryptCost)
	checkoutSvc := service.NewCheckoutService(store, notifier)

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.Register(e, cfg, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, accountSvc),
		Enrollments:   handler.NewEnrollmentHandler(enrollSvc),
		Catalog:       handler.NewCatalogHandler(workshops, products),
		Checkout:      handler.NewCheckoutHandler(checkoutSvc),
		Contact:       handler.NewContactHandler(messages),
		AdminWorkshop: handler.NewAdminWorkshopHandler(workshops),
		AdminCustomer: handler.NewAdminCustomerHandler(customers, enrollments, notes),
		AdminStore:    handler.NewAdminStoreHandler(workshops, products, orders, messages),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
