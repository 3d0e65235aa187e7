package service

import (
	"ilt_reports_backend/internal/analytics"
	"ilt_reports_backend/internal/model"
	"ilt_reports_backend/internal/repository"
)

type ModuleService struct {
	ModuleRepo *repository.ModuleRepository
	Datasets   *DatasetService
}

func NewModuleService(moduleRepo *repository.ModuleRepository, datasets *DatasetService) *ModuleService {
	return &ModuleService{
		ModuleRepo: moduleRepo,
		Datasets:   datasets,
	}
}

func (s *ModuleService) List() ([]model.CourseModule, error) {
	return s.ModuleRepo.FindAll()
}

// SyncFromStructure 从结构表数据集提取模块目录并写入，已有条目按
// module_id 更新。结构表里没有名称列时目录条目名称留空，统计时回退
// 为生成式名称。
func (s *ModuleService) SyncFromStructure(datasetID string) ([]model.CourseModule, error) {
	rows, err := s.Datasets.LoadRows(datasetID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]*model.CourseModule)
	var order []int64
	for _, row := range rows {
		moduleID := row.Int(analytics.ModuleIDAliases)
		if moduleID == 0 {
			continue
		}
		entry, ok := seen[moduleID]
		if !ok {
			entry = &model.CourseModule{ModuleID: moduleID}
			seen[moduleID] = entry
			order = append(order, moduleID)
		}
		if entry.Title == "" {
			entry.Title = row.Field(analytics.ModuleNameAliases)
		}
		if entry.Position == 0 {
			entry.Position = int(row.Int(analytics.ModulePositionAliases))
		}
	}

	modules := make([]model.CourseModule, 0, len(order))
	for _, id := range order {
		modules = append(modules, *seen[id])
	}

	if err := s.ModuleRepo.Upsert(modules); err != nil {
		return nil, err
	}
	return modules, nil
}
