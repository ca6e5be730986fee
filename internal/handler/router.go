package handler

import (
	"sealedauction/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the spec.md §6 endpoint set onto gin, same
// New()/middleware/group shape as the teacher's SetupRouter.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, cfg)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", h.CreateUser)
			users.GET("/:id", h.GetUser)
			users.POST("/:id/topup", h.Topup)
			users.GET("/:id/ledger", h.GetLedger)
		}

		auctions := api.Group("/auctions")
		{
			auctions.POST("", h.CreateAuction)
			auctions.POST("/:id/start", h.StartAuction)
			auctions.GET("/:id", h.GetAuction)
			auctions.GET("/:id/leaderboard", h.Leaderboard)
			auctions.GET("/:id/winners", h.GetWinners)
			auctions.GET("/:id/invariants", h.CheckInvariants)
			auctions.POST("/:id/bids", h.PlaceBid)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
