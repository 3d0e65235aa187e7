package repository

import (
	"ilt_reports_backend/internal/model"

	"gorm.io/gorm"
)

type DatasetRepository struct {
	DB *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{DB: db}
}

// Create 在一个事务里写入数据集元信息和全部行
func (r *DatasetRepository) Create(dataset *model.Dataset, rows []model.DatasetRow) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dataset).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].DatasetID = dataset.ID
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

func (r *DatasetRepository) FindByID(id string) (*model.Dataset, error) {
	var dataset model.Dataset
	if err := r.DB.First(&dataset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (r *DatasetRepository) List(kind string) ([]model.Dataset, error) {
	var datasets []model.Dataset
	query := r.DB.Order("created_at DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&datasets).Error; err != nil {
		return nil, err
	}
	return datasets, nil
}

// Rows 按插入顺序返回数据集的行，limit <= 0 时返回全部
func (r *DatasetRepository) Rows(datasetID string, limit int) ([]model.DatasetRow, error) {
	var rows []model.DatasetRow
	query := r.DB.Where("dataset_id = ?", datasetID).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DatasetRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", id).Delete(&model.DatasetRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Dataset{}, "id = ?", id).Error
	})
}
