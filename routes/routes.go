package routes

import (
	"net/http"

	"tintpro-backend/config"
	"tintpro-backend/controllers"
	"tintpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Booking           *controllers.BookingController
	Services          *controllers.ServiceController
	Sessions          *utils.SessionTokens
	Logger            *zap.Logger
	AllowedOrigins    []string
	MaxRequestsPerMin int
}

func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(utils.ErrorHandler())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", utils.SessionHeader},
		ExposeHeaders: []string{"Content-Length", utils.SessionHeader},
	}
	if len(deps.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = deps.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	r.Use(config.PerformanceLogger(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(utils.RateLimitMiddleware(deps.MaxRequestsPerMin))
	{
		api.GET("/services", deps.Services.GetServices)

		booking := api.Group("/booking")
		booking.Use(utils.SessionMiddleware(deps.Sessions))
		{
			booking.GET("", deps.Booking.GetBooking)
			booking.PUT("/vehicle", deps.Booking.SetVehicle)
			booking.PUT("/mode", deps.Booking.SetMode)
			booking.POST("/cart/toggle", deps.Booking.ToggleItem)
			booking.GET("/total", deps.Booking.GetTotal)
			booking.POST("/proceed", deps.Booking.Proceed)
			booking.POST("/return", deps.Booking.Return)
		}
	}

	return r
}
