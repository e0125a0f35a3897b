package main

import (
	"log"
	"os"

	"github.com/wesdalton/Respire/config"
	"github.com/wesdalton/Respire/routes"
	"github.com/wesdalton/Respire/services"
	"github.com/wesdalton/Respire/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}
	services.InitAlertDeps(config.DB, hub, push)

	r := routes.SetupRouter(config.DB, hub, push)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
