package utils

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// DownloadImage 下载网络图片，返回字节切片与嗅探出的 Content-Type
// Content-Type 以实际字节判定为准，不信任源站返回的响应头
// ctx 取消时在途下载立刻中断
func DownloadImage(ctx context.Context, client *resty.Client, url string) ([]byte, string, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("http get failed: %v", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("download failed with status: %d", resp.StatusCode())
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image body")
	}

	return data, http.DetectContentType(data), nil
}
