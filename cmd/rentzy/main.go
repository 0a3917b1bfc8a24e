package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"rentzy/internal/app/commands"
	"rentzy/internal/app/dto"
	bookingapp "rentzy/internal/app/handlers/booking"
	dashboardapp "rentzy/internal/app/handlers/dashboard"
	listingapp "rentzy/internal/app/handlers/listings"
	meapp "rentzy/internal/app/handlers/me"
	"rentzy/internal/app/middleware"
	appoutbox "rentzy/internal/app/outbox"
	"rentzy/internal/app/policies"
	"rentzy/internal/app/queries"
	"rentzy/internal/app/services/auth"
	appuow "rentzy/internal/app/uow"
	domaincategory "rentzy/internal/domain/category"
	"rentzy/internal/infra/broker/kafka"
	"rentzy/internal/infra/cache"
	"rentzy/internal/infra/config"
	mongodb "rentzy/internal/infra/db/mongo"
	ginserver "rentzy/internal/infra/http/gin"
	"rentzy/internal/infra/obs"
	infraoutbox "rentzy/internal/infra/outbox"
	"rentzy/internal/infra/security"
	"rentzy/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	stack, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	if err := seedCategories(ctx, stack.uowFactory); err != nil {
		logger.Error("category seeding failed", "error", err)
		os.Exit(1)
	}

	statsCache := buildStatsCache(cfg, logger)

	authService := &auth.Service{
		UoWFactory: stack.uowFactory,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	registerHandlers(commandBus, queryBus, stack, statsCache, logger)

	dispatcher := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(stack.idempotency),
		middleware.Transaction(stack.uowFactory),
		middleware.OutboxFlush(stack.outbox),
	)
	asker := middleware.ChainQueries(
		queryBus,
		middleware.ReadOnlyTransaction(stack.uowFactory),
	)

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: stack.ready}, ginserver.Handlers{
		Booking:        ginserver.BookingHandler{Commands: dispatcher},
		Listing:        ginserver.ListingHandler{Commands: dispatcher, Queries: asker},
		Auth:           ginserver.AuthHandler{Service: authService},
		Me:             ginserver.MeHandler{Queries: asker},
		Dashboard:      ginserver.DashboardHandler{Queries: asker},
		AuthMiddleware: authMW.Handle,
	})

	startOutboxWorker(ctx, cfg, stack, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type storageStack struct {
	uowFactory  appuow.Factory
	outbox      appoutbox.Outbox
	idempotency middleware.IdempotencyStore
	outboxStore *infraoutbox.Store
	ready       func() error
}

func buildStorage(cfg config.Config, logger *slog.Logger) (storageStack, error) {
	if cfg.MongoURI == "" {
		logger.Info("no MONGO_URI set, using in-memory storage")
		store := memory.NewStore()
		return storageStack{
			uowFactory:  memory.NewFactory(store),
			outbox:      memory.NewOutbox(),
			idempotency: memory.NewIdempotencyStore(),
			ready:       func() error { return nil },
		}, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storageStack{}, err
	}
	outboxStore := infraoutbox.NewStore(client.DB)
	factory := mongodb.Factory{
		DB:           client.DB,
		BookingRepo:  mongodb.NewBookingRepository(client.DB),
		ListingRepo:  mongodb.NewListingRepository(client.DB),
		UserRepo:     mongodb.NewUserRepository(client.DB),
		CategoryRepo: mongodb.NewCategoryRepository(client.DB),
	}
	return storageStack{
		uowFactory:  factory,
		outbox:      outboxStore,
		idempotency: mongodb.NewIdempotencyStore(client.DB),
		outboxStore: outboxStore,
		ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}, nil
}

func buildStatsCache(cfg config.Config, logger *slog.Logger) policies.StatsCache {
	if cfg.RedisAddr == "" {
		logger.Info("no REDIS_ADDR set, dashboard stats are uncached")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return cache.NewStatsCache(client, cfg.StatsCacheTTL)
}

func registerHandlers(commandBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, stack storageStack, statsCache policies.StatsCache, logger *slog.Logger) {
	encoder := appoutbox.JSONEventEncoder{}

	createBooking := &bookingapp.CreateBookingHandler{
		UoWFactory: stack.uowFactory,
		Outbox:     stack.outbox,
		Encoder:    encoder,
		Cache:      statsCache,
		Logger:     logger,
	}
	commands.Register[bookingapp.CreateBookingCommand, *dto.BookingView](commandBus, bookingapp.CreateBookingCommand{}.Key(), createBooking)

	transitions := &bookingapp.TransitionHandler{
		UoWFactory: stack.uowFactory,
		Outbox:     stack.outbox,
		Encoder:    encoder,
		Cache:      statsCache,
		Logger:     logger,
	}
	bookingapp.RegisterTransitions(commandBus, transitions)

	createListing := &listingapp.CreateListingHandler{UoWFactory: stack.uowFactory, Logger: logger}
	commands.Register[listingapp.CreateListingCommand, *dto.ListingView](commandBus, listingapp.CreateListingCommand{}.Key(), createListing)

	setAvailability := &listingapp.SetAvailabilityHandler{UoWFactory: stack.uowFactory, Cache: statsCache, Logger: logger}
	commands.Register[listingapp.SetAvailabilityCommand, *dto.ListingView](commandBus, listingapp.SetAvailabilityCommand{}.Key(), setAvailability)

	catalog := &listingapp.SearchCatalogHandler{UoWFactory: stack.uowFactory, Logger: logger}
	queries.Register[listingapp.SearchCatalogQuery, dto.ListingCatalog](queryBus, listingapp.SearchCatalogQuery{}.Key(), catalog)

	categories := &listingapp.ListCategoriesHandler{UoWFactory: stack.uowFactory}
	queries.Register[listingapp.ListCategoriesQuery, dto.CategoryCollection](queryBus, listingapp.ListCategoriesQuery{}.Key(), categories)

	renterBookings := &meapp.ListRenterBookingsHandler{UoWFactory: stack.uowFactory, Logger: logger}
	queries.Register[meapp.ListRenterBookingsQuery, dto.BookingCollection](queryBus, meapp.ListRenterBookingsQuery{}.Key(), renterBookings)

	stats := &dashboardapp.GetStatsHandler{UoWFactory: stack.uowFactory, Cache: statsCache, Logger: logger}
	queries.Register[dashboardapp.GetStatsQuery, dto.StatsSnapshot](queryBus, dashboardapp.GetStatsQuery{}.Key(), stats)
}

// seedCategories inserts the default catalog on an empty store.
func seedCategories(ctx context.Context, factory appuow.Factory) error {
	unit, err := factory.Begin(ctx, appuow.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}

	existing, err := unit.Categories().List(execCtx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		committed = true
		return unit.Commit(execCtx)
	}
	for _, cat := range domaincategory.Defaults() {
		if err := unit.Categories().Save(execCtx, cat); err != nil {
			return err
		}
	}
	if err := unit.Commit(execCtx); err != nil {
		return err
	}
	committed = true
	return nil
}

func startOutboxWorker(ctx context.Context, cfg config.Config, stack storageStack, logger *slog.Logger) {
	if stack.outboxStore == nil || len(cfg.KafkaBrokers) == 0 {
		logger.Info("outbox worker disabled", "mongo", stack.outboxStore != nil, "brokers", len(cfg.KafkaBrokers))
		return
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka producer init failed", "error", err)
		return
	}
	worker := &infraoutbox.Worker{
		Store:       stack.outboxStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	go func() {
		defer producer.Close()
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()
}
