package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/internal/middleware"
	"dealer_stock_v1_202608/internal/service"
)

type ImageController struct {
	imageService *service.DealerImageService
}

func NewImageController(s *service.DealerImageService) *ImageController {
	return &ImageController{imageService: s}
}

// ListImages
// @Summary 查询店铺素材
// @Description 返回当前账号店铺的素材，按 sort_order 排序
// @Tags Image (素材模块)
// @Produce json
// @Param type query string false "素材类型过滤: default / fallback / other"
// @Success 200 {object} map[string]interface{}
// @Router /api/images [get]
func (ctrl *ImageController) ListImages(c *gin.Context) {
	user := middleware.CurrentUser(c)

	images, err := ctrl.imageService.ListForUser(c.Request.Context(), user, c.Query("type"))
	if err != nil {
		writeStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    images,
	})
}

// CreateImage
// @Summary 新增店铺素材
// @Description 素材类型为 default（固定垫底图）、fallback（无用户图时的候补图）或 other
// @Tags Image (素材模块)
// @Accept json
// @Produce json
// @Param request body dto.CreateImageRequest true "素材信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Router /api/images [post]
func (ctrl *ImageController) CreateImage(c *gin.Context) {
	var req dto.CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误",
			"details": err.Error(),
		})
		return
	}

	user := middleware.CurrentUser(c)

	image, err := ctrl.imageService.CreateForUser(c.Request.Context(), user, &req)
	if err != nil {
		writeStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    image,
	})
}

// DeleteImage
// @Summary 删除店铺素材
// @Tags Image (素材模块)
// @Produce json
// @Param id path int true "素材 ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/images/{id} [delete]
func (ctrl *ImageController) DeleteImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "id 必须是数字",
		})
		return
	}

	user := middleware.CurrentUser(c)

	if err := ctrl.imageService.DeleteForUser(c.Request.Context(), user, id); err != nil {
		writeStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}
