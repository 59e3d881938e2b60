package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// JPEG 魔数
		w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46})
	}))
	defer server.Close()

	data, contentType, err := DownloadImage(context.Background(), NewTraderClient(5*time.Second), server.URL)
	if err != nil {
		t.Fatalf("下载失败: %v", err)
	}
	if len(data) == 0 {
		t.Error("图片数据为空")
	}
	if contentType != "image/jpeg" {
		t.Errorf("contentType = %s, want image/jpeg", contentType)
	}
}

func TestDownloadImage_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, _, err := DownloadImage(context.Background(), NewTraderClient(5*time.Second), server.URL); err == nil {
		t.Error("404 应报错")
	}
}

func TestDownloadImage_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 取消要立刻中断下载，不能等到客户端超时
	start := time.Now()
	_, _, err := DownloadImage(ctx, NewTraderClient(30*time.Second), server.URL)
	if err == nil {
		t.Fatal("已取消的上下文应直接失败")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("取消后仍等待了 %v", elapsed)
	}
}
