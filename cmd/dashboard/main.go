package main

// @title CRM Dashboard API
// @version 1.0
// @description Aggregation and caching layer between the dashboard frontends and the upstream CRM.
// @BasePath /api/v1

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	httpSwagger "github.com/swaggo/http-swagger"

	"crm-dashboard/internal/api"
	"crm-dashboard/internal/api/handler"
	"crm-dashboard/internal/cache"
	"crm-dashboard/internal/config"
	"crm-dashboard/internal/crm"
	"crm-dashboard/internal/store"
	"crm-dashboard/internal/token"
	"crm-dashboard/pkg/httpclient"
	"crm-dashboard/pkg/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ failed to load config: %v", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	redisStore := cache.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port)
	if err := redisStore.Ping(ctx); err != nil {
		log.Fatalf("❌ failed to connect to redis: %v", err)
	}
	defer redisStore.Close()
	cacheClient := cache.New(redisStore, cfg.Redis.DefaultTTL)

	httpClient := httpclient.New(30 * time.Second)
	clock := clockwork.NewRealClock()

	scheduler := token.NewScheduler(httpClient, db, token.Config{
		TokenURL:     cfg.CRM.TokenURL,
		ClientID:     cfg.CRM.ClientID,
		ClientSecret: cfg.CRM.ClientSecret,
		RefreshToken: cfg.CRM.RefreshToken,
		RedirectURL:  cfg.CRM.RedirectURL,
		Interval:     cfg.RenewInterval,
	}, clock)
	if err := scheduler.Run(ctx); err != nil {
		log.Fatalf("❌ failed to start token scheduler: %v", err)
	}
	defer scheduler.Stop()

	crmClient := crm.NewClient(httpClient, cfg.CRM.BaseURL, scheduler)

	r := router.New()
	api.RegisterRoutes(r,
		handler.NewAgentHandler(crmClient, cacheClient),
		handler.NewBrokerHandler(crmClient, cacheClient, clock),
		handler.NewInvestorHandler(crmClient, cacheClient),
		handler.NewReferralHandler(crmClient, cacheClient),
	)
	r.Handle("/swagger/", httpSwagger.WrapHandler)

	r.Start(cfg.HTTPAddr)
}
