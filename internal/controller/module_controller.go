package controller

import (
	"errors"

	"ilt_reports_backend/internal/service"
	"ilt_reports_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

// @Summary 课程模块目录
// @Tags 模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /modules [get]
func (c *ModuleController) List(ctx *gin.Context) {
	modules, err := c.ModuleService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

type syncModulesRequest struct {
	DatasetID string `json:"datasetId" binding:"required"`
}

// @Summary 同步模块目录
// @Description 从已上传的结构表数据集提取模块编号、名称与位置
// @Tags 模块
// @Accept json
// @Produce json
// @Param request body syncModulesRequest true "结构表数据集"
// @Success 200 {object} util.Response
// @Router /modules/sync [post]
func (c *ModuleController) Sync(ctx *gin.Context) {
	var req syncModulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "datasetId is required")
		return
	}

	modules, err := c.ModuleService.SyncFromStructure(req.DatasetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}
