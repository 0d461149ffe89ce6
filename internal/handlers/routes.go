package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/larkerlabs/storefront-orderflow/internal/apierr"
	"github.com/larkerlabs/storefront-orderflow/internal/auth"
	"github.com/larkerlabs/storefront-orderflow/internal/aws"
	"github.com/larkerlabs/storefront-orderflow/internal/cart"
	"github.com/larkerlabs/storefront-orderflow/internal/checkout"
	"github.com/larkerlabs/storefront-orderflow/internal/orders"
	"github.com/larkerlabs/storefront-orderflow/internal/payments"
	"github.com/larkerlabs/storefront-orderflow/internal/products"
	"github.com/larkerlabs/storefront-orderflow/internal/validation"
)

const clientIDCookie = "cart_client"

// HandlerConfig groups dependencies for the storefront API.
type HandlerConfig struct {
	DynamoDBClient    aws.DynamoDBAPI
	SQSClient         aws.SQSAPI
	CartStore         cart.Store
	Provider          payments.Provider
	OrdersTable       string
	ProductsTable     string
	UsersTable        string
	PaymentQueueURL   string
	WebhookSecret     string
	PublicBaseURL     string
	SessionSigningKey []byte
	SessionTTL        time.Duration
}

// RegisterRoutes wires the storefront routes onto the engine.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	productStore := products.NewStore(cfg.DynamoDBClient, cfg.ProductsTable)
	orderStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	userStore := auth.NewStore(cfg.DynamoDBClient, cfg.UsersTable)
	sessions := auth.NewSessions(cfg.SessionSigningKey, cfg.SessionTTL)
	gateway := auth.NewGateway(userStore, sessions)
	checkoutSvc := checkout.NewService(productStore, orderStore, cfg.Provider, cfg.PublicBaseURL)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.PaymentQueueURL)

	r.POST("/auth/sign-in", func(c *gin.Context) {
		var req validation.Credentials
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		token, err := gateway.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.SetCookie("session", token, int(cfg.SessionTTL.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	r.POST("/auth/create-account", func(c *gin.Context) {
		var req validation.Credentials
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		user, err := gateway.CreateAccount(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user_id": user.UserID, "email": user.Email})
	})

	r.GET("/cart", func(c *gin.Context) {
		current := loadCart(c, cfg.CartStore)
		if current == nil {
			return
		}
		respondCart(c, current)
	})

	r.POST("/cart/items", func(c *gin.Context) {
		var req validation.AddItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		resolved, err := productStore.FindByIDs(c.Request.Context(), []string{req.ProductID})
		if err != nil {
			respondError(c, err)
			return
		}
		if len(resolved) == 0 {
			respondError(c, apierr.New(apierr.KindNotFound, "product not found"))
			return
		}
		p := resolved[0]

		current := loadCart(c, cfg.CartStore)
		if current == nil {
			return
		}

		// re-adding the same product leaves the cart unchanged
		if current.AddItem(cart.Item{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			AddedAt:   time.Now().UTC(),
		}) {
			if err := cfg.CartStore.Save(c.Request.Context(), current); err != nil {
				respondError(c, err)
				return
			}
		}
		respondCart(c, current)
	})

	r.DELETE("/cart/items/:productId", func(c *gin.Context) {
		current := loadCart(c, cfg.CartStore)
		if current == nil {
			return
		}

		// absent product is a no-op, still a 200
		if current.RemoveItem(c.Param("productId")) {
			if err := cfg.CartStore.Save(c.Request.Context(), current); err != nil {
				respondError(c, err)
				return
			}
		}
		respondCart(c, current)
	})

	r.DELETE("/cart", func(c *gin.Context) {
		clientID := cartClientID(c)
		if err := cfg.CartStore.Delete(c.Request.Context(), clientID); err != nil {
			respondError(c, err)
			return
		}
		respondCart(c, &cart.Cart{ClientID: clientID})
	})

	r.POST("/checkout/session", RequireSession(sessions), func(c *gin.Context) {
		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		result, err := checkoutSvc.CreateSession(c.Request.Context(), currentUserID(c), req.ProductIDs)
		if err != nil {
			respondError(c, err)
			return
		}

		// result.URL is null when the provider session could not be
		// created; the client shows a soft error and may retry
		c.JSON(http.StatusOK, result)
	})

	r.GET("/orders/:orderId/status", func(c *gin.Context) {
		status, err := checkoutSvc.OrderStatus(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	})

	r.POST("/webhooks/payment", func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_body"})
			return
		}

		confirmation, err := payments.ParseConfirmation(payload, c.GetHeader("Stripe-Signature"), cfg.WebhookSecret)
		if errors.Is(err, payments.ErrIgnoredEvent) {
			// answer 200 or the provider keeps retrying events we skip
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		if err != nil {
			slog.Warn("rejected payment webhook", "err", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_event"})
			return
		}

		msg := map[string]string{
			"order_id": confirmation.OrderID,
			"user_id":  confirmation.UserID,
		}
		attrs := map[string]string{
			"order_id":       confirmation.OrderID,
			"correlation_id": c.GetHeader("X-Request-Id"),
		}
		if err := publisher.PublishPaymentEvent(c.Request.Context(), msg, attrs); err != nil {
			// 5xx so the provider redelivers and no confirmation is lost
			slog.Error("enqueue payment confirmation failed", "order_id", confirmation.OrderID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	})
}

// cartClientID returns the anonymous id from the cart cookie, minting one on
// first contact so the cart survives reloads before sign-in.
func cartClientID(c *gin.Context) string {
	if id, err := c.Cookie(clientIDCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(clientIDCookie, id, int((90 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return id
}

// loadCart fetches the client's cart, mapping a miss to an empty cart.
// On store failure it writes the error response and returns nil.
func loadCart(c *gin.Context, store cart.Store) *cart.Cart {
	clientID := cartClientID(c)
	current, err := store.Get(c.Request.Context(), clientID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return &cart.Cart{ClientID: clientID}
	}
	if err != nil {
		respondError(c, err)
		return nil
	}
	return current
}

func respondCart(c *gin.Context, current *cart.Cart) {
	c.JSON(http.StatusOK, gin.H{
		"items": current.Items,
		"total": current.Total(),
	})
}

// respondError maps the taxonomy onto HTTP statuses. Anything outside it is
// a 500 with no internal detail in the body.
func respondError(c *gin.Context, err error) {
	kind := apierr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apierr.KindBadRequest, apierr.KindValidation:
		status = http.StatusBadRequest
	case apierr.KindUnauthorized, apierr.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apierr.KindConflict:
		status = http.StatusConflict
	case apierr.KindNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "err", err)
	}

	body := gin.H{"error": apierr.MessageOf(err)}
	if fields := apierr.FieldsOf(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, body)
}
