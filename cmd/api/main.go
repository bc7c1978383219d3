package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elixa-backend/internal/auth"
	"elixa-backend/internal/client"
	"elixa-backend/internal/config"
	"elixa-backend/internal/database"
	"elixa-backend/internal/mailer"
	"elixa-backend/internal/repository"
	"elixa-backend/internal/server"
	"elixa-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient(&cfg.Database)
	khaltiClient := client.NewKhaltiClient(&cfg.Khalti, cfg.FrontendURL)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	contactRepo := repository.NewContactRepository(db)

	txm := database.NewTxManager(db)
	tokenIssuer := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	smtpMailer := mailer.NewMailer(&cfg.SMTP)

	userService := service.NewUserService(userRepo, tokenIssuer, smtpMailer, cfg.BaseURL)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(txm, cartRepo, productRepo)
	paymentService := service.NewPaymentService(
		txm, khaltiClient, service.NewInflightRegistry(),
		userRepo, cartRepo, paymentRepo, orderRepo,
	)
	orderService := service.NewOrderService(orderRepo)
	contactService := service.NewContactService(contactRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(tokenIssuer, userService, productService, cartService, paymentService, orderService, contactService)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
