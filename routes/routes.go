package routes

import (
	"time"

	"tene-backend/notify"
	"tene-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps is everything the handlers need, built once in main and threaded
// down from here. No package-level clients.
type Deps struct {
	DB       *gorm.DB
	Cache    *utils.Cache
	Notifier *notify.BotNotifier
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(utils.LogWriter()), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	PingRoutes(r)
	AuthRoutes(r, deps)
	NovelsRoutes(r, deps)
	ChaptersRoutes(r, deps)
	CommentsRoutes(r, deps)
	BookmarksRoutes(r, deps)
	ProgressRoutes(r, deps)
	SubscriptionsRoutes(r, deps)

	return r
}
