package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dealer_stock_v1_202608/internal/controller"
	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/internal/repository"
	"dealer_stock_v1_202608/internal/router"
	"dealer_stock_v1_202608/internal/service"
	"dealer_stock_v1_202608/internal/task"
	"dealer_stock_v1_202608/pkg/database"
	"dealer_stock_v1_202608/pkg/net"
	"dealer_stock_v1_202608/pkg/utils"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers, deps.Repos.User)

	// 5. 启动服务
	startServer(r, deps)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Dispatcher  net.Dispatcher
	Controllers *router.Controllers
	Services    *Services
	TokenTask   *task.TokenTask
}

// Repositories 仓库集合
type Repositories struct {
	User        repository.UserRepository
	Store       repository.StoreRepository
	DealerImage repository.DealerImageRepository
	StockRecord repository.StockRecordRepository
}

// Services 服务集合
type Services struct {
	Token   *service.TokenService
	Vehicle *service.VehicleService
	Image   *service.ImageService
	Submit  *service.SubmitService
	Stock   *service.StockService
	Asset   *service.DealerImageService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=dealer_stock port=5432 sslmode=disable TimeZone=Europe/London")

	return database.InitDB(dsn,
		// Manager
		&model.SysUser{},
		// Store
		&model.Store{}, &model.DealerImage{},
		// Stock
		&model.StockRecord{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:        repository.NewUserRepository(db),
		Store:       repository.NewStoreRepository(db),
		DealerImage: repository.NewDealerImageRepository(db),
		StockRecord: repository.NewStockRecordRepository(db),
	}

	// -------- 基础设施 --------
	baseURL := getEnv("TRADER_API_BASE", "https://api.autotrader.co.uk/service/stock-management")
	uploadTimeout := time.Duration(getEnvInt("TRADER_UPLOAD_TIMEOUT_SECONDS", 30)) * time.Second
	uploadConcurrency := getEnvInt("TRADER_UPLOAD_CONCURRENCY", 4)
	requestDeadline := time.Duration(getEnvInt("TRADER_REQUEST_DEADLINE_SECONDS", 120)) * time.Second
	assetLimit := getEnvInt("TRADER_ASSET_LIMIT", 100)

	dispatcher := net.NewDispatcher(uploadTimeout, 0, 0)
	httpClient := utils.NewTraderClient(uploadTimeout)

	// -------- 业务服务 --------
	services := &Services{}
	services.Token = service.NewTokenService(repos.Store, httpClient, baseURL)
	services.Vehicle = service.NewVehicleService(dispatcher, baseURL)
	services.Image = service.NewImageService(dispatcher, httpClient, baseURL, uploadConcurrency)
	services.Submit = service.NewSubmitService(dispatcher, baseURL)
	services.Stock = service.NewStockService(
		repos.Store, repos.DealerImage, repos.StockRecord,
		services.Vehicle, services.Image, services.Token, services.Submit,
	)
	services.Stock.SetBounds(requestDeadline, assetLimit)
	services.Asset = service.NewDealerImageService(repos.Store, repos.DealerImage)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Stock: controller.NewStockController(services.Stock),
		Image: controller.NewImageController(services.Asset),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Dispatcher:  dispatcher,
		Controllers: controllers,
		Services:    services,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// Token 刷新
	tokenTask := task.NewTokenTask(
		deps.Repos.Store,
		deps.Services.Token,
	)
	tokenTask.Start()
	deps.TokenTask = tokenTask

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, deps *Dependencies) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	if deps.TokenTask != nil {
		deps.TokenTask.Stop()
	}

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
