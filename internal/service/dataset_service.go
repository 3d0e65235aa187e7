package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ilt_reports_backend/internal/analytics"
	"ilt_reports_backend/internal/model"
	"ilt_reports_backend/internal/repository"
	"ilt_reports_backend/internal/util"
	"ilt_reports_backend/pkg/logger"
	"ilt_reports_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type DatasetService struct {
	DatasetRepo *repository.DatasetRepository
	Storage     *StorageService
}

func NewDatasetService(datasetRepo *repository.DatasetRepository, storage *StorageService) *DatasetService {
	return &DatasetService{
		DatasetRepo: datasetRepo,
		Storage:     storage,
	}
}

// DatasetPreview 上传后的列检查视图：解析出的列名和前若干行
type DatasetPreview struct {
	Dataset *model.Dataset  `json:"dataset"`
	Columns []string        `json:"columns"`
	Rows    []analytics.Row `json:"rows"`
}

// ParseCSV 将 CSV 解析为列名和行数组。首行为表头；空文件报错，
// 行长不齐时多余的值被忽略、缺少的按空串处理
func ParseCSV(r io.Reader) ([]string, []analytics.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, util.ErrEmptyDataset
	}
	if err != nil {
		return nil, nil, err
	}
	// 去掉 Excel 导出常见的 UTF-8 BOM
	header[0] = strings.TrimPrefix(header[0], "﻿")

	var rows []analytics.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		row := make(analytics.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// Import 解析并入库一份 CSV，原始文件同时归档到对象存储。
// 归档失败只记日志不中断导入，行数据已经入库即可用于分析。
func (s *DatasetService) Import(ctx context.Context, kind, filename string, data []byte) (*model.Dataset, error) {
	if !model.ValidDatasetKind(kind) {
		return nil, util.ErrUnsupportedDatasetKind
	}

	columns, parsed, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return nil, err
	}

	dataset := &model.Dataset{
		Kind:     model.DatasetKind(kind),
		Filename: filename,
		Columns:  string(columnsJSON),
		RowCount: len(parsed),
	}
	dataset.ID = model.GenerateUUID()

	archivePath := fmt.Sprintf("datasets/%s/%s", dataset.ID, filename)
	if _, err := s.Storage.Upload(ctx, archivePath, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
		logger.Log.Warn("failed to archive dataset file",
			zap.String("dataset_id", dataset.ID),
			zap.Error(err))
	} else {
		dataset.StoragePath = archivePath
	}

	rows := make([]model.DatasetRow, 0, len(parsed))
	for _, row := range parsed {
		encoded, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.DatasetRow{Data: string(encoded)})
	}

	if err := s.DatasetRepo.Create(dataset, rows); err != nil {
		return nil, err
	}

	monitoring.DatasetRowsImported.WithLabelValues(kind).Add(float64(len(rows)))
	return dataset, nil
}

func (s *DatasetService) List(kind string) ([]model.Dataset, error) {
	return s.DatasetRepo.List(kind)
}

// Preview 返回列名和前 limit 行，供上传后的列检查界面使用
func (s *DatasetService) Preview(id string, limit int) (*DatasetPreview, error) {
	dataset, err := s.DatasetRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	var columns []string
	if dataset.Columns != "" {
		if err := json.Unmarshal([]byte(dataset.Columns), &columns); err != nil {
			return nil, err
		}
	}

	stored, err := s.DatasetRepo.Rows(id, limit)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows(stored)
	if err != nil {
		return nil, err
	}

	return &DatasetPreview{Dataset: dataset, Columns: columns, Rows: rows}, nil
}

// LoadRows 解码数据集的全部行，供分析处理器消费
func (s *DatasetService) LoadRows(id string) ([]analytics.Row, error) {
	stored, err := s.DatasetRepo.Rows(id, 0)
	if err != nil {
		return nil, err
	}
	return decodeRows(stored)
}

func (s *DatasetService) Delete(ctx context.Context, id string) error {
	dataset, err := s.DatasetRepo.FindByID(id)
	if err != nil {
		return err
	}
	if dataset.StoragePath != "" {
		if err := s.Storage.Delete(ctx, dataset.StoragePath); err != nil {
			logger.Log.Warn("failed to delete archived dataset file",
				zap.String("dataset_id", id),
				zap.Error(err))
		}
	}
	return s.DatasetRepo.Delete(id)
}

func decodeRows(stored []model.DatasetRow) ([]analytics.Row, error) {
	rows := make([]analytics.Row, 0, len(stored))
	for _, rec := range stored {
		var row analytics.Row
		if err := json.Unmarshal([]byte(rec.Data), &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
