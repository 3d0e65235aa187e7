package controller

import (
	"errors"

	"ilt_reports_backend/internal/service"
	"ilt_reports_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportController struct {
	AnalyticsService *service.AnalyticsService
}

func NewReportController(analyticsService *service.AnalyticsService) *ReportController {
	return &ReportController{AnalyticsService: analyticsService}
}

// @Summary 生成分析报告
// @Description 对选定的数据集运行学员分层与活动曲线分析并保存结果
// @Tags 报告
// @Accept json
// @Produce json
// @Param request body service.GenerateReportRequest true "分析配置"
// @Success 201 {object} util.Response
// @Router /reports [post]
func (c *ReportController) Generate(ctx *gin.Context) {
	var req service.GenerateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	if req.GradesDatasetID == "" && req.StudentsDatasetID == "" && req.SubmissionsDatasetID == "" {
		util.BadRequest(ctx, "at least one of grades, students or submissions dataset is required")
		return
	}

	view, err := c.AnalyticsService.GenerateReport(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.BadRequest(ctx, "referenced dataset does not exist")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary 报告列表
// @Tags 报告
// @Produce json
// @Success 200 {object} util.Response
// @Router /reports [get]
func (c *ReportController) List(ctx *gin.Context) {
	reports, err := c.AnalyticsService.ListReports()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// @Summary 报告详情
// @Description 返回报告及分层、曲线摘要和曲线采样点三组结果
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Success 200 {object} util.Response
// @Router /reports/{id} [get]
func (c *ReportController) Get(ctx *gin.Context) {
	view, err := c.AnalyticsService.GetReport(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 删除报告
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Success 200 {object} util.Response
// @Router /reports/{id} [delete]
func (c *ReportController) Delete(ctx *gin.Context) {
	if err := c.AnalyticsService.DeleteReport(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary 学员模块统计
// @Description 按课程模块统计报告内单个学员的做题情况
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Param userId path string true "学员标识"
// @Success 200 {object} util.Response
// @Router /reports/{id}/learners/{userId}/modules [get]
func (c *ReportController) LearnerModules(ctx *gin.Context) {
	stats, err := c.AnalyticsService.LearnerModules(ctx.Request.Context(), ctx.Param("id"), ctx.Param("userId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 分组模块统计
// @Description 将模块统计在整组学员上取平均
// @Tags 报告
// @Produce json
// @Param id path string true "报告ID"
// @Success 200 {object} util.Response
// @Router /reports/{id}/modules [get]
func (c *ReportController) GroupModules(ctx *gin.Context) {
	stats, err := c.AnalyticsService.GroupModules(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
