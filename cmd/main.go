package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	_ "github.com/stirlingv/honey-biz/docs"
	"github.com/stirlingv/honey-biz/internal/app"
	"github.com/stirlingv/honey-biz/internal/config"
	"github.com/stirlingv/honey-biz/internal/entities"
	"github.com/stirlingv/honey-biz/internal/handler"
	"github.com/stirlingv/honey-biz/internal/invoicing"
	"github.com/stirlingv/honey-biz/internal/notify"
	"github.com/stirlingv/honey-biz/internal/oauthstate"
	"github.com/stirlingv/honey-biz/internal/postgres"
	"github.com/stirlingv/honey-biz/internal/repo"
	"github.com/stirlingv/honey-biz/internal/service"
	"github.com/stirlingv/honey-biz/pkg/cache"
	"github.com/stirlingv/honey-biz/pkg/trm"
)

// @title           Honey Shop API
// @version         1.0
// @description     Orders, service requests and checkout for the honey shop.
// @securityDefinitions.basic  BasicAuth
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	panicIfErr("failed to migrate db", postgres.Migrate(db, conf.Postgres.DBName))
	logger.Info("postgres connected")

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	panicIfErr("failed to connect to redis", rdb.Ping(context.Background()).Err())
	logger.Info("redis connected")

	shopRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	products := cache.NewLRUCache[int64, entities.Product](conf.Cache.Capacity, conf.Cache.TTL)

	sender, err := notify.NewSMTPSender(conf.Mail)
	panicIfErr("failed to configure mail", err)
	dispatcher := notify.NewDispatcher(logger, sender, notify.Options{
		SMSTo:        conf.Mail.SMSEmail,
		AdminTo:      conf.Mail.AdminEmail,
		AdminBaseURL: conf.Staff.BaseURL,
		Timeout:      conf.Mail.Timeout,
	})

	shopService := service.NewShopService(logger, txManager, shopRepo, products, dispatcher)
	requestService := service.NewRequestService(logger, shopRepo, dispatcher)

	application := app.New(logger, conf)
	application.SetHTTPHandlers(
		handler.NewHTTPHandler(logger, shopService, requestService),
	)
	application.Mount("/metrics", promhttp.Handler())
	application.Mount("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	handler.RegisterMetrics()

	starters := []app.Starter{products}

	if conf.QuickBooks.Configured() {
		client, err := invoicing.New(invoicing.Config{
			ClientID:     conf.QuickBooks.ClientID,
			ClientSecret: conf.QuickBooks.ClientSecret,
			RedirectURL:  conf.QuickBooks.RedirectURL,
			Environment:  conf.QuickBooks.Environment,
		})
		panicIfErr("failed to configure invoicing", err)

		tokens := service.NewTokenService(logger, shopRepo, client, service.TokenOptions{
			RealmID:  conf.QuickBooks.CompanyID,
			Skew:     conf.QuickBooks.RefreshSkew,
			Interval: conf.QuickBooks.RefreshInterval,
		})
		checkout := service.NewCheckoutService(logger, shopRepo, client, tokens, conf.QuickBooks.CallTimeout)
		reconciler := service.NewReconcileService(logger, shopRepo, client, tokens, conf.QuickBooks.CallTimeout)

		application.SetHTTPHandlers(
			handler.NewCheckoutHandler(logger, checkout),
			handler.NewIntegrationHandler(logger,
				handler.Staff{Username: conf.Staff.Username, Password: conf.Staff.Password},
				oauthstate.NewStore(rdb, oauthstate.DefaultTTL),
				client,
				tokens,
			),
		)
		application.SetConsumers(handler.NewKafkaHandler(logger, conf.Kafka, reconciler))
		starters = append(starters, tokens)
		logger.Info("invoicing integration enabled", slog.String("environment", conf.QuickBooks.Environment))
	} else {
		// nil Invoicer: every checkout ends in manual processing.
		checkout := service.NewCheckoutService(logger, shopRepo, nil, nil, conf.QuickBooks.CallTimeout)
		application.SetHTTPHandlers(handler.NewCheckoutHandler(logger, checkout))
		logger.Warn("invoicing integration not configured, checkout is manual")
	}

	application.SetStarters(starters...)
	application.SetClosers(
		closerFunc(func() error { dispatcher.Wait(); return nil }),
		rdb,
		db,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", application.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", application.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
