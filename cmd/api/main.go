package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/config"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	memoryStore "github.com/rotulos-pr/fieldops-backend-go/internal/entitystore/memory"
	mongoStore "github.com/rotulos-pr/fieldops-backend-go/internal/entitystore/mongodb"
	postgresStore "github.com/rotulos-pr/fieldops-backend-go/internal/entitystore/postgres"
	appHTTP "github.com/rotulos-pr/fieldops-backend-go/internal/handler/http"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/database"
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/sse"
	attendanceService "github.com/rotulos-pr/fieldops-backend-go/internal/service/attendance"
	dispatchService "github.com/rotulos-pr/fieldops-backend-go/internal/service/dispatch"
	patrolService "github.com/rotulos-pr/fieldops-backend-go/internal/service/patrol"
	permitService "github.com/rotulos-pr/fieldops-backend-go/internal/service/permit"
	ticketService "github.com/rotulos-pr/fieldops-backend-go/internal/service/ticket"
	workerService "github.com/rotulos-pr/fieldops-backend-go/internal/service/worker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "fieldops"),
	)
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize entity store: ", err)
	}

	mirrors := mirror.NewManager(store, logger)
	defer mirrors.Close()

	roster, err := workerService.NewRosterService(ctx, store, mirrors, logger)
	if err != nil {
		log.Fatal("Failed to start roster service: ", err)
	}
	engine, err := attendanceService.NewEngine(ctx, store, mirrors, logger)
	if err != nil {
		log.Fatal("Failed to start attendance engine: ", err)
	}
	scheduler, err := dispatchService.NewScheduler(ctx, store, mirrors, logger)
	if err != nil {
		log.Fatal("Failed to start dispatch scheduler: ", err)
	}
	tickets, err := ticketService.NewTicketService(ctx, store, mirrors, logger)
	if err != nil {
		log.Fatal("Failed to start ticket service: ", err)
	}
	permits, err := permitService.NewPermitService(ctx, store, mirrors, logger)
	if err != nil {
		log.Fatal("Failed to start permit service: ", err)
	}
	patrols, err := patrolService.NewPatrolService(ctx, store, mirrors, logger)
	if err != nil {
		log.Fatal("Failed to start patrol service: ", err)
	}

	hub := sse.NewHub()
	broadcaster := sse.NewBroadcaster(hub, logger)
	watches := []struct {
		collection entitystore.Collection
		order      entitystore.OrderSpec
		source     sse.Source
	}{
		{entitystore.CollectionWorkers, workerService.RosterOrder, func() interface{} { return roster.Workers() }},
		{entitystore.CollectionAttendanceEntries, attendanceService.EntriesOrder, func() interface{} { return engine.Entries() }},
		{entitystore.CollectionDispatchJobs, dispatchService.JobsOrder, func() interface{} { return scheduler.Jobs() }},
		{entitystore.CollectionServiceTickets, ticketService.TicketsOrder, func() interface{} { return tickets.Tickets() }},
		{entitystore.CollectionPermits, permitService.PermitsOrder, func() interface{} { return permits.Permits() }},
		{entitystore.CollectionPatrolEntries, patrolService.EntriesOrder, func() interface{} { return patrols.Entries() }},
	}
	for _, w := range watches {
		handle, err := mirrors.Open(ctx, w.collection, w.order)
		if err != nil {
			log.Fatal("Failed to open broadcast mirror: ", err)
		}
		broadcaster.Watch(string(w.collection), handle, w.source)
	}

	ja := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)

	router := appHTTP.NewRouter(ja, cfg.App.AllowedOrigins, appHTTP.Handlers{
		Worker:     appHTTP.NewWorkerHandler(roster),
		Attendance: appHTTP.NewAttendanceHandler(engine),
		Dispatch:   appHTTP.NewDispatchHandler(scheduler),
		Ticket:     appHTTP.NewTicketHandler(tickets),
		Permit:     appHTTP.NewPermitHandler(permits),
		Patrol:     appHTTP.NewPatrolHandler(patrols),
		Stream:     appHTTP.NewStreamHandler(hub),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr, "store", cfg.Store.Backend, "env", cfg.App.Env)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (entitystore.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memoryStore.NewStore(), nil

	case "postgres":
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		pg := postgresStore.NewStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return pg, nil

	case "mongodb":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("ping mongodb: %w", err)
		}
		return mongoStore.NewStore(client.Database(cfg.Mongo.Database)), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
