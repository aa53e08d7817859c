package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurantapp/backend/config"
	"restaurantapp/backend/internal/api/handler"
	"restaurantapp/backend/internal/api/middleware"
	"restaurantapp/backend/pkg/jwt"
	"restaurantapp/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录注册限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 可订性查询（无需认证，顾客下单前浏览）
		branches := v1.Group("/branches")
		{
			branches.GET("/:id/availability", h.Availability.Check)
			branches.GET("/:id/availability/summary", h.Availability.Summary)
			branches.GET("/:id/slots", h.Availability.SlotGrid)
			branches.GET("/:id", h.Branch.GetBranch)
			branches.GET("/:id/tables", h.Table.ListTables)
		}

		// 餐厅与门店浏览（无需认证）
		v1.GET("/restaurants", h.Restaurant.ListRestaurants)
		v1.GET("/restaurants/:id", h.Restaurant.GetRestaurant)
		v1.GET("/restaurants/:id/branches", h.Branch.ListBranches)
		v1.GET("/restaurants/:id/availability/summary", h.Availability.SummaryByRestaurant)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.User.GetMe)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 预订模块（创建限流防刷单）
			reservations := authorized.Group("/reservations")
			{
				reservations.POST("", middleware.RateLimit(rdb, 20, time.Minute), h.Reservation.Book)
				reservations.GET("", h.Reservation.ListMyReservations)
				reservations.GET("/:id", h.Reservation.GetReservation)
				reservations.POST("/:id/cancel", h.Reservation.Cancel)
				reservations.GET("/:id/ics", h.Reservation.ExportICS)
				reservations.POST("/:id/confirm", middleware.RoleAuth("staff", "admin"), h.Reservation.Confirm)
				reservations.POST("/:id/seat", middleware.RoleAuth("staff", "admin"), h.Reservation.Seat)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 上座率（员工运营视图）
			authorized.GET("/branches/:id/occupancy", middleware.RoleAuth("staff", "admin"), h.Availability.Occupancy)
			authorized.GET("/restaurants/:id/occupancy", middleware.RoleAuth("staff", "admin"), h.Availability.OccupancyByRestaurant)

			// 餐厅管理模块
			authorized.POST("/restaurants", middleware.RoleAuth("admin"), h.Restaurant.CreateRestaurant)
			authorized.PUT("/restaurants/:id", middleware.RoleAuth("admin"), h.Restaurant.UpdateRestaurant)
			authorized.PUT("/restaurants/:id/policy", middleware.RoleAuth("admin"), h.Restaurant.UpdatePolicy)
			authorized.DELETE("/restaurants/:id", middleware.RoleAuth("admin"), h.Restaurant.DeleteRestaurant)

			// 门店管理模块
			authorized.POST("/branches", middleware.RoleAuth("admin"), h.Branch.CreateBranch)
			authorized.PUT("/branches/:id", middleware.RoleAuth("admin"), h.Branch.UpdateBranch)
			authorized.PUT("/branches/:id/hours", middleware.RoleAuth("admin"), h.Branch.ReplaceHours)
			authorized.DELETE("/branches/:id", middleware.RoleAuth("admin"), h.Branch.DeleteBranch)

			// 桌位管理模块
			tables := authorized.Group("/tables")
			{
				tables.GET("/:id", h.Table.GetTable)
				tables.POST("", middleware.RoleAuth("admin"), h.Table.CreateTable)
				tables.PUT("/:id", middleware.RoleAuth("admin"), h.Table.UpdateTable)
				tables.PUT("/:id/availability", middleware.RoleAuth("staff", "admin"), h.Table.SetAvailability)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/occupancy", middleware.RoleAuth("staff", "admin"), h.Export.ExportOccupancyReport)
			}
		}
	}

	return r
}
