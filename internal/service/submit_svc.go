package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"dealer_stock_v1_202608/pkg/net"
	"dealer_stock_v1_202608/pkg/trader"
)

// ==================== 刊登提交 ====================

// SubmitService 负责把组装好的报文提交到库存接口
type SubmitService struct {
	dispatcher net.Dispatcher
	baseURL    string
}

// NewSubmitService 创建提交服务
func NewSubmitService(dispatcher net.Dispatcher, baseURL string) *SubmitService {
	return &SubmitService{dispatcher: dispatcher, baseURL: baseURL}
}

// Submit 提交刊登报文，成功返回上游库存 ID
func (s *SubmitService) Submit(ctx context.Context, storeID int64, advertiserID, token string, payload *trader.StockPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", NewServerError("序列化刊登报文失败", err.Error())
	}

	apiURL := fmt.Sprintf("%s/stock?advertiserId=%s", s.baseURL, url.QueryEscape(advertiserID))
	req, err := net.BuildTraderPostRequest(ctx, apiURL, bytes.NewReader(body), token)
	if err != nil {
		return "", NewServerError("构建刊登请求失败", err.Error())
	}

	// 刊登不是幂等操作，网络层错误也不能自动重发
	resp, err := s.dispatcher.SendOnce(ctx, storeID, req)
	if err != nil {
		return "", NewServerError("刊登请求发送失败", err.Error())
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		message, details := parseUpstreamError(respBody, resp.StatusCode)
		log.Printf("[SubmitService] 上游拒绝刊登 [%d]: %s", resp.StatusCode, message)
		// 原始响应体原样保留，排查时要对得上上游日志
		return "", NewUpstreamRejectedError(message, details, string(respBody))
	}

	var result trader.StockCreateResp
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", NewServerError("解析刊登响应失败", err.Error())
	}

	stockID := result.StockIdentifier()
	if stockID == "" {
		return "", NewServerError("刊登响应缺少库存 ID", string(respBody))
	}

	return stockID, nil
}

// parseUpstreamError 从上游错误响应里提取可读信息
func parseUpstreamError(body []byte, statusCode int) (message, details string) {
	var apiErr trader.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			return apiErr.Message, apiErr.DetailText()
		}
		if d := apiErr.DetailText(); d != "" {
			return d, ""
		}
	}
	if len(body) > 0 {
		return string(body), ""
	}
	return fmt.Sprintf("上游返回 %d 且无响应体", statusCode), ""
}
