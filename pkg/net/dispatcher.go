package net

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Dispatcher 网络调度器 (通用组件)
// 所有对外部 Stock API 的调用统一走这里，按店铺限流并自动重试网络层错误
type Dispatcher interface {
	// Send 发送 HTTP 请求
	// storeID: 业务实体的唯一标识，限流按它分桶
	Send(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error)

	// SendOnce 只发送一次，网络层错误不重试
	// 非幂等的提交必须走这里：连接级错误也可能发生在上游已受理之后，重发等于重复提交
	SendOnce(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error)

	// SendMultipart 发送 multipart/form-data 请求（图片上传用）
	SendMultipart(ctx context.Context, storeID int64, req *MultipartRequest) (*http.Response, error)
}

// MultipartRequest 多部分请求
type MultipartRequest struct {
	URL     string
	Headers map[string]string
	Files   map[string]FileData
	Fields  map[string]string
}

// FileData 文件数据
type FileData struct {
	Data        []byte
	Filename    string
	ContentType string
}

// httpDispatcher 是 Dispatcher 接口的具体实现
// 注意：它是私有的，外部只能通过 NewDispatcher 获取接口
type httpDispatcher struct {
	client       *http.Client
	limiterCache sync.Map // storeID -> *rate.Limiter
	maxRetries   int
	perStoreRPS  rate.Limit
	burst        int
}

var _ Dispatcher = (*httpDispatcher)(nil)

// NewDispatcher 创建调度器
// perStoreRPS: 单店铺每秒请求上限（上游按广告主限流，本地先挡一道）
func NewDispatcher(timeout time.Duration, perStoreRPS float64, burst int) Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if perStoreRPS <= 0 {
		perStoreRPS = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &httpDispatcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: timeout,
		},
		maxRetries:  2,
		perStoreRPS: rate.Limit(perStoreRPS),
		burst:       burst,
	}
}

// Send 发送 HTTP 请求 (自动处理限流与重试)
func (d *httpDispatcher) Send(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
	// 1. 按店铺分桶限流
	if err := d.limiter(storeID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %v", err)
	}

	var lastErr error
	for i := 0; i <= d.maxRetries; i++ {
		resp, err := d.client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// 请求体只能重放一次的情况下不再重试
		if req.Body != nil && req.GetBody == nil {
			break
		}
		if i < d.maxRetries {
			if req.GetBody != nil {
				body, rewindErr := req.GetBody()
				if rewindErr != nil {
					break
				}
				req.Body = body
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
			}
		}
	}

	return nil, fmt.Errorf("request failed after retries: %v", lastErr)
}

// SendOnce 发送 HTTP 请求，失败直接返回
func (d *httpDispatcher) SendOnce(ctx context.Context, storeID int64, req *http.Request) (*http.Response, error) {
	if err := d.limiter(storeID).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %v", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	return resp, nil
}

// SendMultipart 组装 multipart 体后走统一发送通道
func (d *httpDispatcher) SendMultipart(ctx context.Context, storeID int64, mreq *MultipartRequest) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for field, file := range mreq.Files {
		part, err := createFilePart(writer, field, file)
		if err != nil {
			return nil, fmt.Errorf("build multipart: %v", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("write multipart: %v", err)
		}
	}
	for k, v := range mreq.Fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mreq.URL, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, v := range mreq.Headers {
		req.Header.Set(k, v)
	}

	return d.Send(ctx, storeID, req)
}

// createFilePart 带 Content-Type 的文件分部；上游按这个头判断图片格式
func createFilePart(writer *multipart.Writer, field string, file FileData) (io.Writer, error) {
	if file.ContentType == "" {
		return writer.CreateFormFile(field, file.Filename)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Filename))
	h.Set("Content-Type", file.ContentType)
	return writer.CreatePart(h)
}

// limiter 获取或创建店铺级限流器 (LoadOrStore 防止并发重复创建)
func (d *httpDispatcher) limiter(storeID int64) *rate.Limiter {
	if val, ok := d.limiterCache.Load(storeID); ok {
		return val.(*rate.Limiter)
	}
	actual, _ := d.limiterCache.LoadOrStore(storeID, rate.NewLimiter(d.perStoreRPS, d.burst))
	return actual.(*rate.Limiter)
}
