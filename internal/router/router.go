package router

import (
	"github.com/gin-gonic/gin"

	"dealer_stock_v1_202608/internal/controller"
	"dealer_stock_v1_202608/internal/middleware"
	"dealer_stock_v1_202608/internal/repository"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Stock *controller.StockController
	Image *controller.ImageController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers, userRepo repository.UserRepository) *gin.Engine {
	r := gin.Default()

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// API 路由组，全部走 JWT 认证
	api := r.Group("/api", middleware.JWTAuth(userRepo))
	{
		// stock 库存刊登
		stock := api.Group("/stock")
		{
			// POST /api/stock/create
			stock.POST("/create", ctls.Stock.CreateStock)
			// GET /api/stock/create 流程说明
			stock.GET("/create", ctls.Stock.GetCreateStockInfo)
			// GET /api/stock/records 创建记录
			stock.GET("/records", ctls.Stock.ListRecords)
		}

		// images 店铺素材维护
		images := api.Group("/images")
		{
			images.GET("", ctls.Image.ListImages)
			images.POST("", ctls.Image.CreateImage)
			images.DELETE("/:id", ctls.Image.DeleteImage)
		}
	}

	return r
}
