package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orgadmin/internal/caching"
	"orgadmin/internal/config"
	"orgadmin/internal/handlers"
	"orgadmin/internal/jobs"
	appmiddleware "orgadmin/internal/middleware"
	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/services"
	"orgadmin/internal/tenancy"
	"orgadmin/pkg/database"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	storage, err := services.NewStorageService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create storage client")
	}
	if err := storage.EnsureBucketExists(ctx, cfg.ReportBucket); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.ReportBucket).Msg("could not ensure report bucket")
	}

	// Repositories.
	orgRepo := repositories.NewOrganizationRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	roleRepo := repositories.NewRoleRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)
	stockRepo := repositories.NewStockRepo(pool)

	// Tenancy core.
	accessCache := caching.NewAccessCache(redisClient, cfg.AccessCacheTTL)
	access := tenancy.NewAccessResolver(membershipRepo, tenantRepo, orgRepo, accessCache)
	roles := tenancy.NewRoleResolver(membershipRepo, roleRepo)
	scope := tenancy.NewScopeEngine(access)
	hooks := tenancy.NewLifecycleHooks(tenantRepo, access)
	slugs := tenancy.NewSlugAllocator()

	// Services.
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	orgService := services.NewOrganizationService(orgRepo, membershipRepo, scope, slugs, accessCache)
	tenantService := services.NewTenantService(tenantRepo, membershipRepo, access, scope, slugs)
	membershipService := services.NewMembershipService(membershipRepo, accessCache)
	userService := services.NewUserService(userRepo, tenantRepo, roleRepo, membershipRepo, scope, accessCache)
	roleService := services.NewRoleService(roleRepo, access, scope, slugs)
	productService := services.NewProductService(productRepo, scope, hooks)
	projectService := services.NewProjectService(projectRepo, scope, hooks)
	stockService := services.NewStockService(stockRepo, scope, hooks)
	reportService := services.NewReportService(stockService, storage, cfg.ReportBucket)

	// Middleware.
	tenantMW := appmiddleware.NewTenantMiddleware(access, tenantRepo)
	rbacMW := appmiddleware.NewRBACMiddleware(roles)

	// Handlers.
	authHandlers := handlers.NewAuthHandlers(authService)
	healthHandlers := handlers.NewHealthHandlers(pool, accessCache)
	orgHandlers := handlers.NewOrganizationHandlers(orgService)
	tenantHandlers := handlers.NewTenantHandlers(tenantService)
	userHandlers := handlers.NewUserHandlers(userService, membershipService)
	roleHandlers := handlers.NewRoleHandlers(roleService)
	productHandlers := handlers.NewProductHandlers(productService)
	projectHandlers := handlers.NewProjectHandlers(projectService)
	stockHandlers := handlers.NewStockHandlers(stockService, reportService)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(appmiddleware.Metrics())

	// Public tier.
	e.GET("/health/live", healthHandlers.Liveness)
	e.GET("/health/ready", healthHandlers.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/api/register", authHandlers.Register)
	e.POST("/api/login", authHandlers.Login)

	jwtMW := appmiddleware.JWTConfig(cfg.JWTSecret)
	principalMW := appmiddleware.LoadPrincipal(userRepo)

	// Authenticated tier: no tenant resolution, for account-level and
	// organization-level operations.
	authed := e.Group("/api", jwtMW, principalMW)
	authed.GET("/me", authHandlers.Me)
	authed.GET("/organizations", orgHandlers.List)
	authed.POST("/organizations", orgHandlers.Create)
	authed.GET("/organizations/:id", orgHandlers.Get)
	authed.PUT("/organizations/:id", orgHandlers.Update)
	authed.DELETE("/organizations/:id", orgHandlers.Delete)
	authed.GET("/organizations/:orgId/roles", roleHandlers.ListByOrganization)
	authed.GET("/permissions", roleHandlers.Permissions)

	// Authenticated + tenant-resolved tier: the header is honored when
	// present, the default membership otherwise, and routes tolerate an
	// empty tenant context.
	resolved := e.Group("/api", jwtMW, principalMW, tenantMW.ResolveTenant())
	resolved.GET("/tenants", tenantHandlers.List)
	resolved.POST("/tenants", tenantHandlers.Create)
	resolved.GET("/tenants/:id", tenantHandlers.Get)
	resolved.PUT("/tenants/:id", tenantHandlers.Update)
	resolved.DELETE("/tenants/:id", tenantHandlers.Delete)
	resolved.POST("/roles", roleHandlers.Create)
	resolved.GET("/roles/:id", roleHandlers.Get)
	resolved.PUT("/roles/:id", roleHandlers.Update)
	resolved.DELETE("/roles/:id", roleHandlers.Delete)
	resolved.GET("/users", userHandlers.List)
	resolved.POST("/users", userHandlers.Create)
	resolved.GET("/users/:id", userHandlers.Get)
	resolved.PUT("/users/:id", userHandlers.Update)
	resolved.DELETE("/users/:id", userHandlers.Delete)
	resolved.GET("/users/:id/tenants", userHandlers.ListTenants)
	resolved.POST("/users/:id/tenants", userHandlers.AttachTenant)
	resolved.PUT("/users/:id/tenants/:tenantId", userHandlers.UpdateTenant)
	resolved.DELETE("/users/:id/tenants/:tenantId", userHandlers.DetachTenant)
	resolved.GET("/products", productHandlers.List)
	resolved.POST("/products", productHandlers.Create)
	resolved.GET("/products/:id", productHandlers.Get)
	resolved.PUT("/products/:id", productHandlers.Update)
	resolved.DELETE("/products/:id", productHandlers.Delete)
	resolved.GET("/stocks/consolidated", stockHandlers.Consolidated)
	resolved.GET("/stocks/consolidated/export", stockHandlers.ConsolidatedExport)

	// Authenticated + tenant-required tier: rejected with 400 when no
	// tenant is resolved.
	scoped := e.Group("/api", jwtMW, principalMW, tenantMW.ResolveTenant(), tenantMW.RequireTenant())
	scoped.GET("/projects", projectHandlers.List, rbacMW.RequirePermission(models.PermProjectView))
	scoped.POST("/projects", projectHandlers.Create, rbacMW.RequirePermission(models.PermProjectCreate))
	scoped.GET("/projects/:id", projectHandlers.Get, rbacMW.RequirePermission(models.PermProjectView))
	scoped.PUT("/projects/:id", projectHandlers.Update, rbacMW.RequirePermission(models.PermProjectUpdate))
	scoped.DELETE("/projects/:id", projectHandlers.Delete, rbacMW.RequirePermission(models.PermProjectDelete))
	scoped.GET("/stocks", stockHandlers.List)
	scoped.POST("/stocks", stockHandlers.Upsert)

	// Background jobs.
	scheduler, err := jobs.NewScheduler(orgRepo, tenantRepo, stockRepo, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
