package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anuj-gif-web/helpunity-backend/config"
	"github.com/Anuj-gif-web/helpunity-backend/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Logger.Sync()

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "If-None-Match"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(router, cfg)

	cfg.Logger.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		cfg.Logger.Fatal("server stopped", zap.Error(err))
	}
}
