package repository

import (
	"ilt_reports_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// Upsert 按 module_id 去重写入，已存在的条目更新名称和位置
func (r *ModuleRepository) Upsert(modules []model.CourseModule) error {
	if len(modules) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "position"}),
	}).Create(&modules).Error
}

func (r *ModuleRepository) FindAll() ([]model.CourseModule, error) {
	var modules []model.CourseModule
	if err := r.DB.Order("position ASC, module_id ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// NameMap 返回 module_id 到显示名称的字典，供模块统计查名使用
func (r *ModuleRepository) NameMap() (map[int64]string, error) {
	modules, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(modules))
	for _, m := range modules {
		if m.Title != "" {
			names[m.ModuleID] = m.Title
		}
	}
	return names, nil
}
