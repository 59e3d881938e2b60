package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/internal/repository"
	"dealer_stock_v1_202608/internal/service"
)

// TokenTask 周期性刷新临近过期的店铺访问令牌
// 令牌有效期很短（上游默认 15 分钟），提前刷新能避免创建请求撞上过期令牌
type TokenTask struct {
	StoreRepo    repository.StoreRepository
	TokenService *service.TokenService
	Cron         *cron.Cron

	// 控制并发刷新数量，所有店铺打同一个认证端点
	concurrencyLimit int
	sleepTime        time.Duration
	expiryWindow     time.Duration
}

func NewTokenTask(storeRepo repository.StoreRepository, tokenService *service.TokenService) *TokenTask {
	return &TokenTask{
		StoreRepo:        storeRepo,
		TokenService:     tokenService,
		Cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		concurrencyLimit: 10,
		sleepTime:        50 * time.Millisecond, // 每个协程启动间隔，平滑波峰
		expiryWindow:     2 * time.Hour,
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次 Token 检查...")
		t.refreshJob(ctx)
	}()

	// 定时策略
	_, err := t.Cron.AddFunc("0 0/40 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.refreshJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动 Token 定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("Token 保活任务已启动 (每40分钟检查一次)")
}

// Stop 停止定时任务，等待在途刷新完成
func (t *TokenTask) Stop() {
	ctx := t.Cron.Stop()
	<-ctx.Done()
}

// refreshJob 单轮刷新逻辑
func (t *TokenTask) refreshJob(ctx context.Context) {
	stores, err := t.StoreRepo.FindExpiringStores(ctx, t.expiryWindow)
	if err != nil {
		log.Printf("[Cron] 店铺过期状态查询失败: %v", err)
		return
	}

	if len(stores) == 0 {
		return
	}

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	log.Printf("[Cron] 开始处理 %d 个店铺的 Token 刷新，并发上限: %d", len(stores), t.concurrencyLimit)

	for _, store := range stores {
		select {
		case <-ctx.Done():
			log.Println("[Cron] 任务超时停止")
			wg.Wait()
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		// 平滑波峰
		time.Sleep(t.sleepTime)

		go func(s model.Store) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := t.TokenService.RefreshToken(ctx, &s); err != nil {
				// 日志仅记录，不中断其他协程
				log.Printf("[Cron] 店铺 [%s] 刷新失败: %v", s.StoreName, err)
			}
		}(store)
	}

	wg.Wait()
	log.Println("[Cron] 本轮 Token 刷新任务完成")
}
