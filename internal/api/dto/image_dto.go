package dto

// CreateImageRequest 新增经销商素材
type CreateImageRequest struct {
	Name      string `json:"name"`
	PublicURL string `json:"public_url" binding:"required,url"`
	ImageType string `json:"image_type" binding:"required,oneof=default fallback other"`
	SortOrder int    `json:"sort_order"`
}

// ImageResp 素材列表项
type ImageResp struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PublicURL string `json:"public_url"`
	ImageType string `json:"image_type"`
	SortOrder int    `json:"sort_order"`
}
