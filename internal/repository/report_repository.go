package repository

import (
	"ilt_reports_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) Create(report *model.AnalysisReport) error {
	return r.DB.Create(report).Error
}

func (r *ReportRepository) FindByID(id string) (*model.AnalysisReport, error) {
	var report model.AnalysisReport
	if err := r.DB.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// List 按创建时间倒序返回报告，不带 Payload 字段以减小列表响应体积
func (r *ReportRepository) List() ([]model.AnalysisReport, error) {
	var reports []model.AnalysisReport
	err := r.DB.
		Select("id", "title", "grades_dataset_id", "students_dataset_id", "submissions_dataset_id",
			"meetings_dataset_id", "structure_dataset_id", "created_at", "updated_at").
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepository) Delete(id string) error {
	return r.DB.Delete(&model.AnalysisReport{}, "id = ?", id).Error
}
