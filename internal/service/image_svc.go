package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"dealer_stock_v1_202608/internal/model"
	"dealer_stock_v1_202608/pkg/net"
	"dealer_stock_v1_202608/pkg/trader"
	"dealer_stock_v1_202608/pkg/utils"
)

// ==================== 图片挑选策略 ====================

// ImageSource 图片来源
type ImageSource string

const (
	SourceUser     ImageSource = "user"     // 用户本次上传的外部图片 ID
	SourceFallback ImageSource = "fallback" // 店铺垫底素材
	SourceDefault  ImageSource = "default"  // 店铺固定素材
)

// SelectedImage 挑选结果中的一项
// user 来源只有 ImageID；fallback/default 来源只有待上传的 Asset
type SelectedImage struct {
	Source  ImageSource
	ImageID string
	Asset   *model.DealerImage
}

// ImageSelection 挑选结果，Items 的顺序就是最终刊登顺序
type ImageSelection struct {
	Items          []SelectedImage
	FallbackAssets []model.DealerImage
	DefaultAssets  []model.DealerImage
}

// SelectImages 纯函数：计算最终图片顺序
// 排序契约（改动会悄悄换掉橱窗首图）：
//  1. 用户图片按传入顺序排最前
//  2. 仅当用户一张未传时，才追加 fallback 组
//  3. default 组永远排最后，与前两步无关
func SelectImages(userImageIDs []string, assets []model.DealerImage) *ImageSelection {
	sel := &ImageSelection{}

	for i := range assets {
		switch assets[i].ImageType {
		case model.ImageTypeDefault:
			sel.DefaultAssets = append(sel.DefaultAssets, assets[i])
		case model.ImageTypeFallback:
			sel.FallbackAssets = append(sel.FallbackAssets, assets[i])
		}
		// other 类型与刊登流程无关，直接忽略
	}

	for _, id := range userImageIDs {
		sel.Items = append(sel.Items, SelectedImage{Source: SourceUser, ImageID: id})
	}

	if len(userImageIDs) == 0 {
		for i := range sel.FallbackAssets {
			sel.Items = append(sel.Items, SelectedImage{Source: SourceFallback, Asset: &sel.FallbackAssets[i]})
		}
	} else {
		// 用户已传图，fallback 整组弃用
		sel.FallbackAssets = nil
	}

	for i := range sel.DefaultAssets {
		sel.Items = append(sel.Items, SelectedImage{Source: SourceDefault, Asset: &sel.DefaultAssets[i]})
	}

	return sel
}

// ==================== 上传 ====================

// UploadOutcome 单张图片的上传结果
// 失败不致命：该图被丢弃，批次继续，不存在整批失败的概念
type UploadOutcome struct {
	Asset         model.DealerImage
	ImageID       string
	FailureReason string
}

// OK 是否拿到了外部图片 ID
func (o UploadOutcome) OK() bool {
	return o.FailureReason == "" && o.ImageID != ""
}

// ImageService 负责把经销商素材推送到外部图片接口
type ImageService struct {
	dispatcher  net.Dispatcher
	download    *resty.Client
	baseURL     string
	concurrency int
}

// NewImageService 创建图片上传服务
// concurrency: 单组内的并发上传上限
func NewImageService(dispatcher net.Dispatcher, download *resty.Client, baseURL string, concurrency int) *ImageService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ImageService{
		dispatcher:  dispatcher,
		download:    download,
		baseURL:     baseURL,
		concurrency: concurrency,
	}
}

// UploadAssets 并发上传一组素材
// 结果切片与入参同序：各协程只写自己的下标，并发完成顺序不影响输出顺序
func (s *ImageService) UploadAssets(ctx context.Context, storeID int64, advertiserID, token string, assets []model.DealerImage) []UploadOutcome {
	outcomes := make([]UploadOutcome, len(assets))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i := range assets {
		select {
		case <-ctx.Done():
			// 截止时间已到，剩余的直接记失败
			for j := i; j < len(assets); j++ {
				outcomes[j] = UploadOutcome{Asset: assets[j], FailureReason: "已取消: " + ctx.Err().Error()}
			}
			wg.Wait()
			return outcomes
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(idx int, asset model.DealerImage) {
			defer wg.Done()
			defer func() { <-sem }()

			imageID, err := s.uploadOne(ctx, storeID, advertiserID, token, &asset)
			if err != nil {
				log.Printf("[ImageService] 素材 %d (%s) 上传失败: %v", asset.ID, asset.Name, err)
				outcomes[idx] = UploadOutcome{Asset: asset, FailureReason: err.Error()}
				return
			}
			outcomes[idx] = UploadOutcome{Asset: asset, ImageID: imageID}
		}(i, assets[i])
	}

	wg.Wait()
	return outcomes
}

// uploadOne 下载源图并 multipart 提交，返回外部图片 ID
func (s *ImageService) uploadOne(ctx context.Context, storeID int64, advertiserID, token string, asset *model.DealerImage) (string, error) {
	// 1. 下载源图
	data, contentType, err := utils.DownloadImage(ctx, s.download, asset.PublicURL)
	if err != nil {
		return "", fmt.Errorf("下载源图失败: %v", err)
	}

	// 非 JPEG 也照样提交，要不要拒由上游说了算，拒了就按单图失败处理
	if contentType != "image/jpeg" {
		log.Printf("[ImageService] 素材 %d 内容类型为 %s，仍尝试上传", asset.ID, contentType)
	}

	filename := asset.Name
	if filename == "" {
		filename = uuid.NewString() + ".jpg"
	}

	// 2. 构建 multipart 请求
	apiURL := fmt.Sprintf("%s/images?advertiserId=%s", s.baseURL, url.QueryEscape(advertiserID))

	mreq := &net.MultipartRequest{
		URL: apiURL,
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
		Files: map[string]net.FileData{
			// 上游要求字段名必须是 file，写成 image 会整张被拒
			"file": {
				Data:        data,
				Filename:    filename,
				ContentType: contentType,
			},
		},
	}

	resp, err := s.dispatcher.SendMultipart(ctx, storeID, mreq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("上游拒绝图片 [%d]: %s", resp.StatusCode, respBody)
	}

	var result trader.ImageUploadResp
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("解析上传响应失败: %v", err)
	}
	if result.ImageID == "" {
		return "", fmt.Errorf("上传响应缺少 imageId: %s", respBody)
	}

	return result.ImageID, nil
}

// ==================== 合并 ====================

// MergeImageIDs 把 user/fallback/default 三组结果按策略顺序合并
// 去重保首次出现；上传失败的素材直接跳过
func MergeImageIDs(sel *ImageSelection, fallbackOutcomes, defaultOutcomes []UploadOutcome) []string {
	ordered := make([]string, 0, len(sel.Items))

	for _, item := range sel.Items {
		if item.Source == SourceUser {
			ordered = append(ordered, item.ImageID)
		}
	}
	for _, o := range fallbackOutcomes {
		if o.OK() {
			ordered = append(ordered, o.ImageID)
		}
	}
	for _, o := range defaultOutcomes {
		if o.OK() {
			ordered = append(ordered, o.ImageID)
		}
	}

	seen := make(map[string]struct{}, len(ordered))
	result := make([]string, 0, len(ordered))
	for _, id := range ordered {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
