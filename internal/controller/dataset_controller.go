package controller

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"ilt_reports_backend/internal/service"
	"ilt_reports_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DatasetController struct {
	DatasetService *service.DatasetService
}

func NewDatasetController(datasetService *service.DatasetService) *DatasetController {
	return &DatasetController{DatasetService: datasetService}
}

// @Summary 上传数据表
// @Description 上传一份 CSV 数据表（成绩/名单/提交/出勤/结构）并解析入库
// @Tags 数据集
// @Accept multipart/form-data
// @Produce json
// @Param kind formData string true "表种类" Enums(grades, students, submissions, meetings, structure)
// @Param file formData file true "CSV 文件"
// @Success 201 {object} util.Response
// @Router /datasets [post]
func (c *DatasetController) Upload(ctx *gin.Context) {
	kind := ctx.PostForm("kind")

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if file.Size > util.MaxUploadSize {
		util.BadRequest(ctx, util.ErrFileTooLarge.Error())
		return
	}
	if !allowedDatasetFile(file.Filename) {
		util.BadRequest(ctx, util.ErrInvalidFileType.Error())
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	dataset, err := c.DatasetService.Import(ctx.Request.Context(), kind, filepath.Base(file.Filename), data)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedDatasetKind) || errors.Is(err, util.ErrEmptyDataset) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, dataset)
}

// @Summary 数据集列表
// @Description 按种类筛选已上传的数据集
// @Tags 数据集
// @Produce json
// @Param kind query string false "表种类"
// @Success 200 {object} util.Response
// @Router /datasets [get]
func (c *DatasetController) List(ctx *gin.Context) {
	datasets, err := c.DatasetService.List(ctx.Query("kind"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, datasets)
}

// @Summary 数据集预览
// @Description 查看解析出的列名和前若干行，用于上传后的列检查
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Param limit query int false "预览行数" default(10)
// @Success 200 {object} util.Response
// @Router /datasets/{id}/preview [get]
func (c *DatasetController) Preview(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	preview, err := c.DatasetService.Preview(ctx.Param("id"), limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, preview)
}

// @Summary 删除数据集
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} util.Response
// @Router /datasets/{id} [delete]
func (c *DatasetController) Delete(ctx *gin.Context) {
	err := c.DatasetService.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

func allowedDatasetFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range util.AllowedDatasetExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
