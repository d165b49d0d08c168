package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-fooddelivery/app/cmd"
	"github.com/Rakhulsr/go-fooddelivery/app/configs"
	"github.com/Rakhulsr/go-fooddelivery/app/handlers"
	"github.com/Rakhulsr/go-fooddelivery/app/metrics"
	"github.com/Rakhulsr/go-fooddelivery/app/models/migrations"
	"github.com/Rakhulsr/go-fooddelivery/app/repositories"
	"github.com/Rakhulsr/go-fooddelivery/app/routes"
	"github.com/Rakhulsr/go-fooddelivery/app/services"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/format"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/renderer"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		if err := cmd.RunCli(ctx, os.Args, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("command failed")
		}
		return
	}

	env, err := configs.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	configs.SetupLogger(env, os.Stdout)

	db, err := configs.OpenConnection(env)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := migrations.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	registry := services.NewStateRegistry(repositories.NewCheckoutSessionRepository(db))
	backend := services.NewBackendClient(env.BackendBaseURL, env.BackendTimeout)

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	loc := env.Location()
	pricing := services.NewPricingAggregator(func() time.Time { return time.Now().In(loc) }, m)
	debouncer := services.NewDebouncer(env.QtyDebounce)

	redisClient, err := configs.OpenRedis(ctx, env)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, delivery charges will not be cached")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	deliveryCache := services.NewDeliveryChargeCache(redisClient, env.DeliveryChargeTTL)

	snapClient, coreClient := configs.NewMidtransClients(env)
	payments := services.NewPaymentService(services.NewMidtransGateway(snapClient, coreClient, env.AppURL))
	if !payments.OnlineEnabled() {
		log.Info().Msg("midtrans keys not set, online payment disabled")
	}

	quoter := services.NewDeliveryQuoter(backend, deliveryCache)
	cartSvc := services.NewCartService(backend, registry, pricing, quoter, debouncer, m)
	checkoutSvc := services.NewCheckoutService(services.CheckoutDeps{
		Backend:         backend,
		Registry:        registry,
		Pricing:         pricing,
		Payments:        payments,
		Quoter:          quoter,
		Debouncer:       debouncer,
		Metrics:         m,
		SettingsTimeout: env.SettingsRefreshTimeout,
	})

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid session keys, run `generate-keys`")
	}
	sessionStore := sessions.NewCookieSessionStore(env.IsProd(), keys.Pairs()...)

	rdr := renderer.New(env.IsDev())
	validate := validator.New()
	money := format.NewMoneyFormatter(env.CurrencySymbol)

	router := routes.NewRouter(routes.Options{
		Render:          rdr,
		SessionStore:    sessionStore,
		CartHandler:     handlers.NewCartHandler(rdr, validate, registry, money, payments, cartSvc),
		CheckoutHandler: handlers.NewCheckoutHandler(rdr, validate, registry, money, payments, checkoutSvc, sessionStore),
		Gatherer:        promRegistry,
		CSRFKey:         keys.CSRFKey,
		SecureCookie:    env.IsProd(),
	})

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", env.AppEnv).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	debouncer.Stop()
	checkoutSvc.Wait()
}
