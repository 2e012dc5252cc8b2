package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/amkessy/law-practice-api/internal/config"
	"github.com/amkessy/law-practice-api/internal/database"
	"github.com/amkessy/law-practice-api/internal/handler"
	"github.com/amkessy/law-practice-api/internal/ledger"
	"github.com/amkessy/law-practice-api/internal/middleware"
	"github.com/amkessy/law-practice-api/internal/queue"
	"github.com/amkessy/law-practice-api/internal/repository"
	"github.com/amkessy/law-practice-api/internal/router"
	"github.com/amkessy/law-practice-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly

	cfg := config.Load()
	ledgerCfg := config.LoadLedgerConfig()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if os.Getenv("DB_MIGRATE") == "true" {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("migrations applied")
	}
	if os.Getenv("DB_SEED") == "true" {
		if err := database.Seed(ctx, db, cfg.BcryptCost); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// Repositories share the single pooled *sql.DB.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	staff := repository.NewStaffRepo(db)
	clients := repository.NewClientRepo(db)
	retainers := repository.NewRetainerRepo(db)
	scopes := repository.NewRetainerScopeRepo(db)
	cases := repository.NewCaseRepo(db)
	tasks := repository.NewTaskRepo(db)
	entries := repository.NewTimeEntryRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	rates := repository.NewExchangeRateRepo(db)

	publisher := service.NewQueuePublisher()
	converter := ledger.NewConverter(rates)
	ldg := ledger.New(db, retainers, scopes, publisher, ledgerCfg.StrictBalance)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))

	// Redis backs rate limiting and the response cache; when it is not
	// reachable both middlewares are simply skipped.
	if rdb := config.NewRedisClient(); rdb != nil {
		if rlCfg.Enabled {
			e.Use(middleware.TokenBucket(rlCfg, rdb))
		}
		if cacheCfg.Enabled {
			e.Use(middleware.ResponseCache(cacheCfg, rdb))
		}
	}

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)

	api := router.API(e, cfg.JWTSecret)
	router.RegisterClients(api, handler.NewClientHandler(clients, retainers, cases, cfg.BaseCurrency))
	router.RegisterRetainers(api, handler.NewRetainerHandler(ldg, retainers, scopes))
	router.RegisterCases(api, handler.NewCaseHandler(cases, clients, retainers))
	router.RegisterTasks(api, handler.NewTaskHandler(tasks, scopes, retainers, ldg, converter))
	router.RegisterTimeEntries(api, handler.NewTimeEntryHandler(entries, tasks))
	router.RegisterStaff(api, handler.NewStaffHandler(staff, cfg.BaseCurrency))
	router.RegisterInvoices(api, handler.NewInvoiceHandler(invoices, clients, converter, ldg, cfg.BaseCurrency))
	router.RegisterExchangeRates(api, handler.NewExchangeRateHandler(rates))

	// Background workers: the queue consumer drains ledger events into
	// the audit log, the scanner advances retainer expiry statuses.
	go func() {
		if err := queue.StartLedgerConsumer(); err != nil {
			log.Printf("ledger consumer stopped: %v", err)
		}
	}()
	go service.NewExpiryScanner(retainers, publisher, ledgerCfg).Run(ctx)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
