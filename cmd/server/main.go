package main

import (
	"net/http"

	"tokoria-be/internal/cart"
	"tokoria-be/internal/config"
	"tokoria-be/internal/db"
	"tokoria-be/internal/logger"
	"tokoria-be/internal/order"
	"tokoria-be/internal/payment"
	"tokoria-be/internal/product"
	"tokoria-be/internal/transport"
	"tokoria-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway := payment.NewClient(cfg)

	productRepo := product.NewRepository(database)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, productRepo, userRepo, gateway)

	router := transport.NewRouter(transport.Services{
		Users:    userSvc,
		Carts:    cartSvc,
		Orders:   orderSvc,
		Products: productRepo,
	})

	log.Info("server listening", zap.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
