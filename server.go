package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vznu7/one-piece-web-application/auth"
	"github.com/Vznu7/one-piece-web-application/cache"
	"github.com/Vznu7/one-piece-web-application/cart"
	"github.com/Vznu7/one-piece-web-application/config"
	cartControllers "github.com/Vznu7/one-piece-web-application/controllers/cart"
	orderControllers "github.com/Vznu7/one-piece-web-application/controllers/order"
	paymentControllers "github.com/Vznu7/one-piece-web-application/controllers/payment"
	productcontroller "github.com/Vznu7/one-piece-web-application/controllers/product"
	"github.com/Vznu7/one-piece-web-application/events"
	"github.com/Vznu7/one-piece-web-application/middleware"
	"github.com/Vznu7/one-piece-web-application/payment"
	"github.com/Vznu7/one-piece-web-application/routes"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Println("⚠️ Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		s, err := store.Open(cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		log.Println("✅ Connected to postgres")
		return s, nil
	}
}

// platform holds the long-lived clients behind the handlers.
type platform struct {
	store    store.Store
	cache    cache.Store
	sessions cart.Persister
	hub      *events.Hub
	events   events.Publisher
	closers  []func() error
}

func (p *platform) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			log.Printf("⚠️ Shutdown: %v", err)
		}
	}
}

func newPlatform(ctx context.Context, cfg *config.Config) (*platform, error) {
	p := &platform{hub: events.NewHub()}
	p.closers = append(p.closers, func() error { p.hub.Close(); return nil })

	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.Database.Driver == "memory" {
		if err := store.Seed(ctx, s); err != nil {
			return nil, err
		}
	}
	p.store = s

	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.closers = append(p.closers, client.Close)
		p.cache = cache.NewRedisStore(client, "storefront:")
		p.sessions = cart.NewRedisPersister(client, cfg.Session.TTL.Std())
		log.Printf("✅ Connected to redis at %s", cfg.Redis.Addr)
	} else {
		p.cache = cache.NewMemoryStore()
		p.sessions = cart.NewMemoryPersister()
	}

	publishers := events.Multi{p.hub}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		kp := events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		p.closers = append(p.closers, kp.Close)
		publishers = append(publishers, kp)
		log.Printf("✅ Publishing order events to kafka topic %s", cfg.Kafka.Topic)
	}
	p.events = publishers
	return p, nil
}

func newRouter(cfg *config.Config, p *platform) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.SessionHeader, orderControllers.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader, "Idempotent-Replayed"},
		AllowCredentials: !containsWildcard(cfg.Origins),
		MaxAge:           12 * time.Hour,
	}))

	shipping := cart.NewShippingPolicy(cfg.Shipping.FlatFee, cfg.Shipping.FreeThreshold)
	gateway := payment.NewRazorpayClient(payment.RazorpayConfig{
		KeyID:       cfg.Razorpay.KeyID,
		KeySecret:   cfg.Razorpay.KeySecret,
		PublicKeyID: cfg.Razorpay.PublicKeyID,
		BaseURL:     cfg.Razorpay.BaseURL,
		Currency:    cfg.Razorpay.Currency,
		Timeout:     cfg.Razorpay.Timeout.Std(),
	})
	log.Printf("💳 Payment gateway: %s", gateway)

	routes.SetupRoutes(r, &routes.Deps{
		Store:       p.store,
		Issuer:      auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Std()),
		AdminAPIKey: cfg.Auth.AdminAPIKey,
		Hub:         p.hub,
		Products:    &productcontroller.Deps{Store: p.store, Sessions: p.sessions},
		Cart:        &cartControllers.Deps{Store: p.store, Sessions: p.sessions, Shipping: shipping},
		Orders: &orderControllers.Deps{
			Store:             p.store,
			Cache:             p.cache,
			Events:            p.events,
			Shipping:          shipping,
			StrictTransitions: cfg.Orders.StrictTransitions,
			IdempotencyTTL:    cfg.Orders.IdempotencyTTL.Std(),
		},
		Payments: &paymentControllers.Deps{
			Store:         p.store,
			Cache:         p.cache,
			Gateway:       gateway,
			Events:        p.events,
			KeySecret:     cfg.Razorpay.KeySecret,
			IntentLockTTL: cfg.Orders.IntentLockTTL.Std(),
		},
	})
	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := newPlatform(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
