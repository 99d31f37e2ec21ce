package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pemafoods/pdv/internal/catalog"
	"github.com/pemafoods/pdv/internal/checkout"
	"github.com/pemafoods/pdv/internal/clock"
	"github.com/pemafoods/pdv/internal/config"
	"github.com/pemafoods/pdv/internal/events"
	"github.com/pemafoods/pdv/internal/history"
	"github.com/pemafoods/pdv/internal/httpx"
	"github.com/pemafoods/pdv/internal/payables"
	"github.com/pemafoods/pdv/internal/postgres"
	"github.com/pemafoods/pdv/internal/sales"
	"github.com/pemafoods/pdv/internal/suggest"
	"github.com/pemafoods/pdv/internal/user"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	var hist history.Store = history.NewMemory()
	if cfg.RedisAddr != "" {
		r := history.NewRedis(cfg.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.Ping(pingCtx); err != nil {
			log.Printf("[history] redis unreachable, falling back to memory: %v", err)
		} else {
			hist = r
		}
		cancel()
	}

	var publisher checkout.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.SaleTopic, 64)
		producer.Start(ctx)
		publisher = producer
	}

	d := deps{
		catalog:   catalog.NewPGRepo(pool),
		users:     user.NewPGRepo(pool),
		orders:    sales.NewPGRepo(pool),
		payables:  payables.NewPGRepo(pool),
		history:   hist,
		rec:       suggest.NewClient(cfg.RecommenderURL),
		events:    publisher,
		clk:       clock.System{},
		debounce:  time.Duration(cfg.SuggestDebounceMS) * time.Millisecond,
		cardDelay: time.Duration(cfg.CardDelayMS) * time.Millisecond,
	}

	r := buildRouter(d)
	log.Printf("pdv terminal listening on %s", cfg.TerminalAddr)
	log.Fatal(r.Run(cfg.TerminalAddr))
}

func buildRouter(d deps) *gin.Engine {
	sess := &session{}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.POST("/login", loginHandler(d, sess))

	auth := r.Group("/", httpx.RequireSession(sess.active))

	auth.GET("/products", listProductsHandler(d.catalog))
	auth.POST("/products", saveProductHandler(d.catalog))
	auth.PUT("/products/:code", saveProductHandler(d.catalog))
	auth.DELETE("/products/:code", deleteProductHandler(d.catalog))

	auth.GET("/order", getOrderHandler(sess))
	auth.POST("/order/items", addItemHandler(d.catalog, sess))
	auth.PUT("/order/items/:code", setQuantityHandler(sess))

	auth.GET("/suggestion", suggestionHandler(sess))

	auth.POST("/checkout", beginCheckoutHandler(sess))
	auth.POST("/checkout/location", selectLocationHandler(sess))
	auth.POST("/checkout/sale-date", saleDateHandler(sess))
	auth.POST("/checkout/confirm", confirmPaymentHandler(sess, d.cardDelay))
	auth.POST("/checkout/cancel", cancelCheckoutHandler(sess))

	auth.GET("/reports/summary", reportsHandler(d.orders))

	back := auth.Group("/payables", httpx.RequireRole(sess.roleAllows(user.CanManagePayables)))
	back.GET("", listPayablesHandler(d.payables))
	back.POST("", savePayableHandler(d.payables, d.clk))
	back.PUT("/:id", savePayableHandler(d.payables, d.clk))
	back.POST("/:id/pay", payPayableHandler(d.payables, d.clk))
	back.DELETE("/:id", deletePayableHandler(d.payables))

	admin := auth.Group("/users", httpx.RequireRole(sess.roleAllows(user.CanManageUsers)))
	admin.GET("", listUsersHandler(d.users))
	admin.POST("", saveUserHandler(d.users, d.clk))
	admin.PUT("/:username", saveUserHandler(d.users, d.clk))
	admin.DELETE("/:username", deleteUserHandler(d.users, sess))

	return r
}
