package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dealer_stock_v1_202608/internal/api/dto"
	"dealer_stock_v1_202608/internal/middleware"
	"dealer_stock_v1_202608/internal/service"
)

type StockController struct {
	stockService *service.StockService
}

func NewStockController(s *service.StockService) *StockController {
	return &StockController{stockService: s}
}

// CreateStock
// @Summary 创建库存刊登
// @Description 按 flow 解析车辆数据、上传店铺图片并提交刊登；flow 取 registration-lookup 或 taxonomy-lookup
// @Tags Stock (库存模块)
// @Accept json
// @Produce json
// @Param request body dto.CreateStockRequest true "创建请求"
// @Success 200 {object} map[string]interface{} "创建成功信息"
// @Failure 400 {object} map[string]interface{} "参数/校验错误"
// @Router /api/stock/create [post]
func (ctrl *StockController) CreateStock(c *gin.Context) {
	var req dto.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误",
			"details": err.Error(),
		})
		return
	}

	user := middleware.CurrentUser(c)

	result, err := ctrl.stockService.CreateStock(c.Request.Context(), user, &req)
	if err != nil {
		writeStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// GetCreateStockInfo
// @Summary 查询创建流程说明
// @Description 返回两条识别流程的字段要求与示例请求
// @Tags Stock (库存模块)
// @Produce json
// @Success 200 {object} dto.FlowDocResponse
// @Router /api/stock/create [get]
func (ctrl *StockController) GetCreateStockInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    ctrl.stockService.GetFlowDocs(),
	})
}

// ListRecords
// @Summary 查询创建记录
// @Description 分页返回当前账号店铺的库存创建审计记录
// @Tags Stock (库存模块)
// @Produce json
// @Param page query int false "页码，默认 1"
// @Param page_size query int false "每页条数，默认 20"
// @Success 200 {object} map[string]interface{}
// @Router /api/stock/records [get]
func (ctrl *StockController) ListRecords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	user := middleware.CurrentUser(c)

	records, total, err := ctrl.stockService.ListRecords(c.Request.Context(), user, page, pageSize)
	if err != nil {
		writeStockError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"list":      records,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// writeStockError 把业务错误翻译成统一的 HTTP 响应
// 上游原始响应体只在存在时下发，前端排障用
func writeStockError(c *gin.Context, err error) {
	se := service.AsStockError(err)

	body := gin.H{
		"code":    se.Status,
		"message": se.Message,
		"kind":    string(se.Kind),
	}
	if se.Details != "" {
		body["details"] = se.Details
	}
	if se.UpstreamBody != "" {
		body["upstream_body"] = se.UpstreamBody
	}

	c.JSON(se.Status, body)
}
