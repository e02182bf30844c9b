package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/gabzlaundry/gab/configs"
	"github.com/gabzlaundry/gab/internal/adapter/cache"
	"github.com/gabzlaundry/gab/internal/adapter/http"
	"github.com/gabzlaundry/gab/internal/adapter/http/middleware"
	"github.com/gabzlaundry/gab/internal/adapter/kafka"
	"github.com/gabzlaundry/gab/internal/adapter/paystack"
	"github.com/gabzlaundry/gab/internal/adapter/queue"
	"github.com/gabzlaundry/gab/internal/adapter/repo"
	"github.com/gabzlaundry/gab/internal/logging"
	"github.com/gabzlaundry/gab/internal/security"
	"github.com/gabzlaundry/gab/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

// InitWithConfig wires the whole service: MySQL, Redis, RabbitMQ, Kafka,
// the Paystack client, every usecase, and the HTTP surface. The returned
// cleanup tears the connections down in reverse order.
func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(orDefault(cfg.MySQL.ConnMaxLifetime, 30*time.Minute))
	db.SetMaxOpenConns(orDefaultInt(cfg.MySQL.MaxOpenConns, 16))
	db.SetMaxIdleConns(orDefaultInt(cfg.MySQL.MaxIdleConns, 16))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(ctx)
	cancel()
	if err != nil {
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	verifier, err := security.NewWebhookVerifier(cfg.WebhookKey())
	if err != nil {
		return nil, nil, err
	}
	gateway := paystack.NewClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, 15*time.Second)

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	serviceRepo := repo.NewMySQLServiceRepo(db)
	noteRepo := repo.NewMySQLNotificationRepo(db)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Cache.StatusTTL)
	statsCache := cache.NewRedisStatsCache(rdb, cfg.Cache.StatsTTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)

	producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange)
	if err != nil {
		return nil, nil, err
	}

	// usecases
	createUC := usecase.NewCreateOrder(orderRepo, serviceRepo, userRepo, gateway, idem, producer, cfg.App.BaseURL, cfg.Paystack.Currency)
	pickupUC := usecase.NewInitiatePickupPayment(orderRepo, userRepo, gateway, cfg.App.BaseURL, cfg.Paystack.Currency)
	confirmUC := usecase.NewConfirmPayment(orderRepo, gateway, statusCache)
	statusUC := usecase.NewUpdateOrderStatus(orderRepo, statusCache, producer)
	dashUC := usecase.NewDashboard(orderRepo, userRepo, noteRepo, statsCache)

	// register queue-handler
	if err := setupQueue(ch, noteRepo); err != nil {
		return nil, nil, err
	}

	// register kafka-listener
	stopKafka, err := setupKafkaListener(cfg, statusUC)
	if err != nil {
		return nil, nil, err
	}

	// init handlers + router + middleware
	h := http.Handlers{
		Auth:      http.NewAuthHandler(cfg, userRepo),
		Orders:    http.NewOrderHandler(createUC, statusUC, orderRepo, statusCache),
		Payments:  http.NewPaymentHandler(pickupUC, confirmUC),
		Services:  http.NewServiceHandler(serviceRepo),
		Dashboard: http.NewDashboardHandler(dashUC),
	}
	authz := middleware.NewAuthz(cfg)
	wv := middleware.NewWebhookVerify(verifier)
	router := http.NewRouter(logging.New("http"), h, authz, wv)

	logger.Info("gab-api wired", "addr", cfg.App.HTTPAddr, "exchange", cfg.Rabbit.Exchange, "topic", cfg.Kafka.Topic)

	cleanup := func() {
		stopKafka()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}
	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, notes usecase.NotificationRepo) error {
	h := queue.NewNotificationHandler(notes)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(queue.OrderCreatedQueue, queue.JSONHandler[usecase.OrderCreatedMsg]{HandleFunc: h.HandleOrderCreated})
	router.Register(queue.OrderReadyQueue, queue.JSONHandler[usecase.OrderReadyMsg]{HandleFunc: h.HandleOrderReady})

	return router.Start()
}

func setupKafkaListener(cfg configs.Config, statusUC *usecase.UpdateOrderStatus) (func(), error) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	h := kafka.NewStationEventHandler(statusUC)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.New("kafka-stations").Error("consumer stopped", "err", err)
		}
	}()

	stop := func() {
		cancel()
		_ = grp.Close()
	}
	return stop, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func orDefaultInt(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
