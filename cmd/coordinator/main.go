package main

import (
	"context"
	"encoding/json"
	"log"

	"monotaskr/coordinator/internal/clock"
	"monotaskr/coordinator/internal/config"
	"monotaskr/coordinator/internal/db"
	"monotaskr/coordinator/internal/event"
	"monotaskr/coordinator/internal/handler"
	"monotaskr/coordinator/internal/router"
	"monotaskr/coordinator/internal/service"
	"monotaskr/coordinator/internal/store"
)

func main() {
	cfg := config.Load()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	st := store.New(database)
	bus := event.NewBus()

	// Bridge store change notifications onto the event stream so readers
	// observe state without polling.
	st.Subscribe(func(area store.Area, key string, _, newValue json.RawMessage) {
		bus.Publish(event.Event{
			Type: event.TypeChange,
			Payload: map[string]interface{}{
				"area":     area,
				"key":      key,
				"newValue": newValue,
			},
		})
	})

	scheduler := clock.NewScheduler()
	defer scheduler.Stop()

	notifier := service.NewEventNotifier(bus)
	titles := service.NewTitleService(st, bus)

	controller, err := service.NewTimerController(st, scheduler, notifier, titles, cfg.TickInterval)
	if err != nil {
		log.Fatalf("init timer controller: %v", err)
	}

	if err := controller.CheckSchedule(context.Background()); err != nil {
		log.Printf("schedule check: %v", err)
	}
	scheduler.Activate(service.ScheduleSubscription, cfg.ScheduleCheckInterval, func() {
		if err := controller.CheckSchedule(context.Background()); err != nil {
			log.Printf("schedule check: %v", err)
		}
	})

	authService, err := service.NewAuthService(st, cfg.PairingCode, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}
	accessService := service.NewAccessService(st)
	settingsService := service.NewSettingsService(st)

	engine := router.New(
		authService,
		handler.NewDeviceHandler(authService),
		handler.NewTimerHandler(controller),
		handler.NewAccessHandler(accessService),
		handler.NewSettingsHandler(settingsService),
		handler.NewEventsHandler(bus),
		cfg.CORSOrigins,
	)

	log.Printf("coordinator listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
