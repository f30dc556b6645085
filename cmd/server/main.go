package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	api "splitbill-backend/internal/api/grpc"
	"splitbill-backend/internal/api/grpc/interceptor"
	httpapi "splitbill-backend/internal/api/http"
	"splitbill-backend/internal/config"
	"splitbill-backend/internal/identity"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/repository/postgres"
	"splitbill-backend/internal/security"
	"splitbill-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.ClientErrorClassifier = service.IsClientError
	logger.Info("Starting SplitBill Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_port", cfg.HTTP.Port)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Auth configuration", "provider", cfg.Auth.Provider)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.RunMigrations {
		if err := postgres.Migrate(db); err != nil {
			logger.Error("Failed to run migrations", "error", err)
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Identity
	tokenManager := security.NewTokenManager(cfg.Auth.JWT.Secret, time.Duration(cfg.Auth.JWT.AccessTokenExpiry)*time.Minute)
	provider, err := identity.NewFromConfig(context.Background(), cfg.Auth, store.UserRepository, tokenManager)
	if err != nil {
		logger.Error("Failed to initialize identity provider", "provider", cfg.Auth.Provider, "error", err)
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	var authSvc service.AuthService
	if cfg.Auth.Provider == config.AuthProviderLocal {
		authSvc = service.NewAuthService(store.UserRepository, tokenManager)
	} else {
		authSvc = service.NewExternalAuthService(cfg.Auth.Provider)
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	resolver := service.NewIdentityResolver(provider)
	ledgerSvc := service.NewLedgerService(store.EventRepository, store.ExpenseRepository, store.SettlementRepository, resolver, emailSvc)
	reconSvc := service.NewReconciliationService(store.EventRepository, store.ExpenseRepository, resolver)
	friendSvc := service.NewFriendService(store.FriendRepository, provider, emailSvc)

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	authInterceptor := interceptor.NewAuthInterceptor(provider)
	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
	)
	api.RegisterSplitBillServiceServer(s, api.NewSplitBillHandler(authSvc, ledgerSvc, reconSvc, friendSvc))

	// Register reflection service for grpcurl
	reflection.Register(s)

	// Set up HTTP server for the JSON API
	var httpServer *http.Server
	if cfg.HTTP.Port > 0 {
		router := httpapi.NewRouter(httpapi.NewHandler(authSvc, ledgerSvc, reconSvc, friendSvc), provider)
		httpServer = &http.Server{
			Addr:              cfg.GetHTTPAddress(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down servers...")
		if httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("HTTP server shutdown failed", "error", err)
			}
		}
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
	if err := s.Serve(lis); err != nil {
		logger.Error("Failed to serve gRPC", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
	logger.Info("Server stopped")
}
