package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartApi "github.com/ridloal/supermarket-management/internal/cart/api"
	cartService "github.com/ridloal/supermarket-management/internal/cart/service"
	commerceApi "github.com/ridloal/supermarket-management/internal/commerce/api"
	commerceClient "github.com/ridloal/supermarket-management/internal/commerce/client"
	commerceService "github.com/ridloal/supermarket-management/internal/commerce/service"
	dashboardService "github.com/ridloal/supermarket-management/internal/dashboard/service"
	forecastService "github.com/ridloal/supermarket-management/internal/forecast/service"
	"github.com/ridloal/supermarket-management/internal/mockdata"
	"github.com/ridloal/supermarket-management/internal/platform/config"
	"github.com/ridloal/supermarket-management/internal/platform/latency"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/platform/storage"
	"github.com/ridloal/supermarket-management/internal/platform/telemetry"
	productApi "github.com/ridloal/supermarket-management/internal/product/api"
	productRepo "github.com/ridloal/supermarket-management/internal/product/repository"
	productService "github.com/ridloal/supermarket-management/internal/product/service"
	saleRepo "github.com/ridloal/supermarket-management/internal/sale/repository"
	saleService "github.com/ridloal/supermarket-management/internal/sale/service"
	userApi "github.com/ridloal/supermarket-management/internal/user/api"
	"github.com/ridloal/supermarket-management/internal/user/domain"
	userRepo "github.com/ridloal/supermarket-management/internal/user/repository"
	userService "github.com/ridloal/supermarket-management/internal/user/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnv()
	logger.SetLevel(logger.ParseLevel(config.GetEnv("LOG_LEVEL", "info")))

	// Load Config
	serverCfg := config.LoadServerConfig("8080")
	storageCfg := config.LoadStorageConfig()
	authCfg := config.LoadAuthConfig()
	commerceCfg := config.LoadCommerceConfig()
	forecastCfg := config.LoadForecastConfig()
	telemetryCfg := config.LoadTelemetryConfig()

	logger.Info("Starting Supermarket Service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(telemetryCfg)
	if err != nil {
		logger.Error("Failed to set up tracing", err)
		return
	}

	// Setup Storage
	store, err := storage.Open(ctx, storageCfg)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to open %s storage", storageCfg.Driver), err)
		return
	}
	logger.Info("Session and cart storage: %s", storageCfg.Driver)

	seed, err := mockdata.Load(commerceCfg.SeedFile, time.Now())
	if err != nil {
		logger.Error("Failed to load seed data", err)
		store.Close()
		return
	}

	// Setup Dependencies
	users := userRepo.NewMemoryUserRepository(seed.Users)
	products := productRepo.NewMemoryProductRepository(seed.Products)
	sales := saleRepo.NewMemorySaleRepository(seed.Sales)

	authSvc := userService.NewAuthService(users, store, authCfg)
	prodSvc := productService.NewProductService(products)
	forecasts := forecastService.NewForecastService(products, sales, forecastService.Options{
		WindowDays:  forecastCfg.WindowDays,
		HorizonDays: forecastCfg.HorizonDays,
	})
	backend := commerceService.NewMockAPI(commerceService.Deps{
		Products:  prodSvc,
		Sales:     saleService.NewSaleService(sales, products),
		Dashboard: dashboardService.NewDashboardService(products, sales),
		Forecasts: forecasts,
		Cashier:   authSvc,
		Latency:   latency.New(commerceCfg.MinLatency, commerceCfg.MaxLatency),
	})

	var cartBackend cartApi.Backend = backend
	if commerceCfg.BackendURL != "" {
		cartBackend = commerceClient.NewHTTPCommerceClient(commerceCfg.BackendURL, authSvc.Token)
		logger.Info("Cart checkout goes to remote commerce API at " + commerceCfg.BackendURL)
	}

	cart := cartService.NewManager(store)
	if err := cart.Init(ctx); err != nil {
		logger.Error("Failed to restore cart", err)
	}

	if err := forecasts.Refresh(ctx); err != nil {
		logger.Warn("Initial forecast refresh failed: %v", err)
	}
	scheduler, err := forecastService.NewScheduler(forecastCfg.CronSpec, forecasts)
	if err != nil {
		logger.Error("Failed to create forecast scheduler", err)
		store.Close()
		return
	}
	scheduler.Start()

	// Setup Gin Router
	router := gin.New()
	router.Use(gin.Logger(), commerceApi.Recovery())
	apiV1 := router.Group("/api/v1")

	signedIn := userApi.RequireAuth(authSvc)
	userApi.NewAuthHandler(authSvc).RegisterRoutes(apiV1)
	commerceApi.NewCommerceHandler(backend).RegisterRoutes(apiV1, commerceApi.Guards{
		Read:     []gin.HandlerFunc{signedIn},
		Manage:   []gin.HandlerFunc{userApi.RequireRole(domain.RoleStaff)},
		Sell:     []gin.HandlerFunc{userApi.RequireRole(domain.RoleCashier)},
		Insights: []gin.HandlerFunc{userApi.RequireRole(domain.RoleAdmin)},
	})
	cartApi.NewCartHandler(cart, cartBackend).RegisterRoutes(apiV1, signedIn, userApi.RequireRole(domain.RoleCashier))
	productApi.NewProductHandler(productService.NewImporter(prodSvc)).RegisterRoutes(apiV1, signedIn, userApi.RequireRole(domain.RoleAdmin))

	srv := &http.Server{
		Addr:    serverCfg.Port,
		Handler: telemetry.WrapHandler(telemetryCfg, router),
	}

	go func() {
		logger.Info("Supermarket Service running on port " + serverCfg.Port)
		if errSrv := srv.ListenAndServe(); errSrv != nil && !errors.Is(errSrv, http.ErrServerClosed) {
			logger.Error("Failed to run Supermarket Service server", errSrv)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down Supermarket Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
	scheduler.Stop(shutdownCtx)
	if err := cart.Close(shutdownCtx); err != nil {
		logger.Error("Failed to flush cart", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("Failed to close storage", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces", err)
	}
	logger.Info("Supermarket Service stopped")
	_ = logger.Sync()
}
