package main

import (
	"os"

	"tene-backend/db"
	_ "tene-backend/docs"
	"tene-backend/notify"
	"tene-backend/routes"
	"tene-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Tene Backend API
// @version 1.0
// @description Reading platform API: novel catalog, chapters, threaded comments, likes, bookmarks, reading progress and subscriptions.
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {
	gin.SetMode(gin.ReleaseMode)

	if err := godotenv.Load(); err != nil {
		utils.LogInfo("No .env file found, using the process environment")
	}

	database, err := db.Connect(os.Getenv("DB_URL"))
	if err != nil {
		utils.LogError(err, "Could not set up the database")
		os.Exit(1)
	}

	if err := utils.InitCloudinary(); err != nil {
		utils.LogError(err, "Cloudinary initialization failed, cover uploads will not work")
	}

	cache, err := utils.NewCache(500)
	if err != nil {
		utils.LogError(err, "Could not create the catalog cache")
		os.Exit(1)
	}

	notifier := notify.NewBotNotifier(
		os.Getenv("BOT_WEBHOOK_URL"),
		os.Getenv("BOT_WEBHOOK_SECRET"),
	)

	r := routes.SetupRouter(routes.Deps{
		DB:       database,
		Cache:    cache,
		Notifier: notifier,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.LogSuccess("Server starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		utils.LogError(err, "Server stopped")
		os.Exit(1)
	}
}
