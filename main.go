package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"crmpro-backend/config"
	"crmpro-backend/routes"
	"crmpro-backend/services"
	"crmpro-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
}

func main() {
	if _, err := config.ConnectDB(context.Background()); err != nil {
		// Keep serving: every handler maps the unavailable store to a 503.
		log.Printf("Firestore not reachable at startup: %v", err)
	}

	loyalty := services.NewLoyaltyService(store.NewProfiles(config.Firestore))
	if notifier := services.NewTierNotifier(config.Firestore); notifier != nil {
		loyalty = loyalty.WithNotifier(notifier)
	}

	services.NewSLAService(config.Firestore).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(loyalty, store.NewCRM(config.Firestore))
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
