package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/statuscore-dev/statuscore/db"
	"github.com/statuscore-dev/statuscore/internal/config"
	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/handlers"
	"github.com/statuscore-dev/statuscore/internal/notify"
	"github.com/statuscore-dev/statuscore/internal/router"
	"github.com/statuscore-dev/statuscore/internal/scheduler"
	"github.com/statuscore-dev/statuscore/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	bus := domain.NewBus()

	monitorSvc := services.NewMonitorService(db.DB)
	incidentSvc := services.NewIncidentService(db.DB, bus)
	eventSvc := services.NewEventService(db.DB, bus)
	channelSvc := services.NewChannelService(db.DB)
	pageSvc := services.NewStatusPageService(db.DB, bus)
	statusSvc := services.NewStatusService(db.DB)
	feedSvc := services.NewFeedService(db.DB, cfg.AppURL, config.DefaultFeedWindowDays)

	dispatcher := notify.NewDispatcher(
		db.DB,
		channelSvc,
		pageSvc,
		notify.NewRegistry(http.DefaultClient),
		cfg.AppURL,
		time.Duration(cfg.DispatchTimeout)*time.Second,
	)
	dispatcher.Start(bus)

	handlers.StartEventBroadcast(bus)

	sched := scheduler.NewScheduler(eventSvc, time.Duration(cfg.AutoCompleteInterval)*time.Second)
	sched.Start()
	defer sched.Stop()

	r := router.NewRouter(router.Handlers{
		Monitors:    handlers.NewMonitorHandler(monitorSvc),
		Incidents:   handlers.NewIncidentHandler(incidentSvc),
		Events:      handlers.NewEventHandler(eventSvc),
		Channels:    handlers.NewChannelHandler(channelSvc, dispatcher),
		StatusPages: handlers.NewStatusPageHandler(pageSvc, statusSvc, feedSvc),
		Feeds:       handlers.NewFeedHandler(feedSvc),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
