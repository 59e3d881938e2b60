package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewTraderClient 创建一个配置好超时和重试的 Resty 客户端
// 用于令牌获取和素材图片下载这类非调度器通道的请求
func NewTraderClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetHeader("User-Agent", "DealerStock-Go-App/1.0")

	return client
}
