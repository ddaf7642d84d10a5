package main

import (
	"log"
	"net/http"

	"darkitchen/internal/config"
	"darkitchen/internal/db"
	"darkitchen/internal/httpapi"
	"darkitchen/internal/identity"
	"darkitchen/internal/logger"
	"darkitchen/internal/order"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	identityRepo := identity.NewRepository(database)
	identitySvc := identity.NewService(identityRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cfg.DeliveryFee, cfg.TaxRate, cfg.CancelWindow)

	handler := httpapi.NewHandler(identitySvc, orderSvc)

	log.Printf("🚀 REST server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, httpapi.Routes(handler)))
}
