package net

import (
	"context"
	"io"
	"net/http"
)

// BuildTraderRequest 通用 Stock API 请求构建器
// 适用方：VehicleService, SubmitService 等所有业务服务
// 职责：统一封装鉴权头 (Authorization) 和标准头 (Content-Type)
// 注意：如果 Content-Type 不是 JSON (如 form-data)，调用方获取 req 后可手动覆盖 Header
func BuildTraderRequest(ctx context.Context, method, url string, body io.Reader, accessToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return req, nil
}

// BuildTraderGetRequest 构建 GET 请求
func BuildTraderGetRequest(ctx context.Context, url string, accessToken string) (*http.Request, error) {
	return BuildTraderRequest(ctx, http.MethodGet, url, nil, accessToken)
}

// BuildTraderPostRequest 构建 POST 请求
func BuildTraderPostRequest(ctx context.Context, url string, body io.Reader, accessToken string) (*http.Request, error) {
	return BuildTraderRequest(ctx, http.MethodPost, url, body, accessToken)
}
