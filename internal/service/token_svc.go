package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/internal/repository"
	"dealer_stock_v1_202608/pkg/utils"
)

// 令牌缓存提前量：上游给的有效期扣掉 1 分钟，避免边界时刻拿到已失效的 token
const tokenExpiryMargin = time.Minute

// TokenService 负责外部 Stock API 的访问令牌获取与缓存
// 令牌按店主邮箱作缓存 key，它是流水线所有上游调用的硬前置
type TokenService struct {
	storeRepo repository.StoreRepository
	client    *resty.Client
	authURL   string
}

// NewTokenService 创建令牌服务
func NewTokenService(storeRepo repository.StoreRepository, client *resty.Client, baseURL string) *TokenService {
	return &TokenService{
		storeRepo: storeRepo,
		client:    client,
		authURL:   baseURL + "/authenticate",
	}
}

// 辅助结构体：Token 响应
type traderTokenResp struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
}

// GetAccessToken 获取指定店铺的访问令牌，优先走缓存
func (s *TokenService) GetAccessToken(ctx context.Context, store *model.Store) (string, error) {
	cacheKey := "trader_token:" + store.OwnerEmail
	if token, ok := utils.GetCache(cacheKey); ok {
		return token, nil
	}

	if store.APIKey == "" || store.APISecret == "" {
		return "", NewAuthError("店铺缺少 API 凭据", "请先在店铺配置中填写 key/secret")
	}

	// 1. 换取令牌
	var tokenResp traderTokenResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"key":    store.APIKey,
			"secret": store.APISecret,
		}).
		SetResult(&tokenResp).
		Post(s.authURL)

	// A. 网络层错误
	if err != nil {
		return "", NewAuthError("获取访问令牌失败", err.Error())
	}

	// B. 业务层错误 (上游明确拒绝)
	if resp.StatusCode() != 200 || tokenResp.AccessToken == "" {
		if uerr := s.storeRepo.UpdateTokenStatus(ctx, store.ID, model.TokenStatusInvalid); uerr != nil {
			log.Printf("[TokenService] 更新店铺 %d token 状态失败: %v", store.ID, uerr)
		}
		return "", NewAuthError("外部服务拒绝发放令牌",
			fmt.Sprintf("status %d: %s", resp.StatusCode(), tokenResp.Error))
	}

	// C. 成功处理：缓存 + 入库
	expiresIn := tokenResp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 900 // 上游不给有效期时按 15 分钟算
	}
	lifetime := time.Duration(expiresIn) * time.Second
	if ttl := lifetime - tokenExpiryMargin; ttl > 0 {
		utils.SetCacheWithTTL(cacheKey, tokenResp.AccessToken, ttl)
	}

	expiresAt := time.Now().Add(lifetime)
	if uerr := s.storeRepo.UpdateToken(ctx, store.ID, tokenResp.AccessToken, expiresAt); uerr != nil {
		log.Printf("[TokenService] 店铺 %d token 入库失败: %v", store.ID, uerr)
	}

	return tokenResp.AccessToken, nil
}

// RefreshToken 强制重新换取令牌（保活任务用）
func (s *TokenService) RefreshToken(ctx context.Context, store *model.Store) error {
	utils.DeleteCache("trader_token:" + store.OwnerEmail)
	_, err := s.GetAccessToken(ctx, store)
	return err
}
