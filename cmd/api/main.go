package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	internalaws "github.com/larkerlabs/storefront-orderflow/internal/aws"
	"github.com/larkerlabs/storefront-orderflow/internal/cart"
	"github.com/larkerlabs/storefront-orderflow/internal/handlers"
	"github.com/larkerlabs/storefront-orderflow/internal/payments"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	clients, err := internalaws.NewClients(context.Background())
	if err != nil {
		slog.Error("failed to init aws clients", "err", err)
		os.Exit(1)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:    clients.DynamoDB,
		SQSClient:         clients.SQS,
		CartStore:         cart.NewRedisStore(redisClient),
		Provider:          payments.NewStripeProvider(os.Getenv("STRIPE_API_KEY")),
		OrdersTable:       os.Getenv("ORDERS_TABLE"),
		ProductsTable:     os.Getenv("PRODUCTS_TABLE"),
		UsersTable:        os.Getenv("USERS_TABLE"),
		PaymentQueueURL:   os.Getenv("PAYMENT_EVENTS_QUEUE_URL"),
		WebhookSecret:     os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PublicBaseURL:     baseURL,
		SessionSigningKey: []byte(os.Getenv("SESSION_SIGNING_KEY")),
		SessionTTL:        24 * time.Hour,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run a local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		slog.Info("running local server", "addr", addr)
		if err := r.Run(addr); err != nil {
			slog.Error("local server failed", "err", err)
			os.Exit(1)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
