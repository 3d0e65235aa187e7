package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"ilt_reports_backend/internal/analytics"
	"ilt_reports_backend/internal/config"
	"ilt_reports_backend/internal/model"
	"ilt_reports_backend/internal/repository"
	"ilt_reports_backend/pkg/logger"
	"ilt_reports_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const reportCacheTTL = time.Hour

type AnalyticsService struct {
	ReportRepo *repository.ReportRepository
	ModuleRepo *repository.ModuleRepository
	Datasets   *DatasetService
	Redis      *redis.Client
	Defaults   config.AnalyticsConfig
}

func NewAnalyticsService(
	reportRepo *repository.ReportRepository,
	moduleRepo *repository.ModuleRepository,
	datasets *DatasetService,
	rdb *redis.Client,
	cfg *config.Config,
) *AnalyticsService {
	return &AnalyticsService{
		ReportRepo: reportRepo,
		ModuleRepo: moduleRepo,
		Datasets:   datasets,
		Redis:      rdb,
		Defaults:   cfg.Analytics,
	}
}

// GenerateReportRequest 一次分析运行的输入：数据集引用、排除名单和配置
type GenerateReportRequest struct {
	Title                string               `json:"title"`
	GradesDatasetID      string               `json:"gradesDatasetId"`
	StudentsDatasetID    string               `json:"studentsDatasetId"`
	SubmissionsDatasetID string               `json:"submissionsDatasetId"`
	MeetingsDatasetID    string               `json:"meetingsDatasetId"`
	StructureDatasetID   string               `json:"structureDatasetId"`
	Excluded             []string             `json:"excluded"`
	Settings             model.ReportSettings `json:"settings"`
}

// ReportView 报告及其解码后的结果数组
type ReportView struct {
	Report   *model.AnalysisReport `json:"report"`
	Settings model.ReportSettings  `json:"settings"`
	Excluded []string              `json:"excluded"`
	Payload  model.ReportPayload   `json:"payload"`
}

// GenerateReport 对选定数据集运行分层和活动曲线两个处理器并持久化结果。
// 会议数据集可选；结果一经生成不再原地更新，重跑产生新的报告。
func (s *AnalyticsService) GenerateReport(ctx context.Context, req GenerateReportRequest) (*ReportView, error) {
	timer := prometheus.NewTimer(monitoring.ReportGenerationDuration)
	defer timer.ObserveDuration()

	grades, err := s.loadOptional(req.GradesDatasetID)
	if err != nil {
		return nil, err
	}
	students, err := s.loadOptional(req.StudentsDatasetID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.loadOptional(req.SubmissionsDatasetID)
	if err != nil {
		return nil, err
	}
	meetings, err := s.loadOptional(req.MeetingsDatasetID)
	if err != nil {
		return nil, err
	}

	settings := req.Settings
	if settings.PlatformWeight <= 0 {
		settings.PlatformWeight = s.Defaults.PlatformWeight
	}
	if settings.MeetingWeight <= 0 {
		settings.MeetingWeight = s.Defaults.MeetingWeight
	}

	excluded := analytics.NewExclusionSet(req.Excluded)

	performance := analytics.SegmentLearners(grades, students, submissions, meetings, excluded, analytics.SegmentOptions{
		UseMeetings: settings.UseMeetings,
	})
	summary, series := analytics.BuildActivityCurves(grades, students, submissions, meetings, excluded, analytics.EasingOptions{
		IncludeMeetings: settings.IncludeMeetings,
		PlatformWeight:  settings.PlatformWeight,
		MeetingWeight:   settings.MeetingWeight,
	})

	payload := model.ReportPayload{
		Performance: performance,
		Summary:     summary,
		Series:      series,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	excludedJSON, err := json.Marshal(req.Excluded)
	if err != nil {
		return nil, err
	}

	report := &model.AnalysisReport{
		Title:                req.Title,
		GradesDatasetID:      req.GradesDatasetID,
		StudentsDatasetID:    req.StudentsDatasetID,
		SubmissionsDatasetID: req.SubmissionsDatasetID,
		MeetingsDatasetID:    req.MeetingsDatasetID,
		StructureDatasetID:   req.StructureDatasetID,
		Settings:             string(settingsJSON),
		Excluded:             string(excludedJSON),
		Payload:              string(payloadJSON),
	}
	if err := s.ReportRepo.Create(report); err != nil {
		return nil, err
	}

	s.cachePayload(ctx, report.ID, payloadJSON)

	return &ReportView{
		Report:   report,
		Settings: settings,
		Excluded: req.Excluded,
		Payload:  payload,
	}, nil
}

func (s *AnalyticsService) GetReport(ctx context.Context, id string) (*ReportView, error) {
	report, err := s.ReportRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	view := &ReportView{Report: report}
	if report.Settings != "" {
		if err := json.Unmarshal([]byte(report.Settings), &view.Settings); err != nil {
			return nil, err
		}
	}
	if report.Excluded != "" {
		if err := json.Unmarshal([]byte(report.Excluded), &view.Excluded); err != nil {
			return nil, err
		}
	}

	if cached, ok := s.cachedPayload(ctx, id); ok {
		view.Payload = *cached
		return view, nil
	}

	if err := json.Unmarshal([]byte(report.Payload), &view.Payload); err != nil {
		return nil, err
	}
	s.cachePayload(ctx, id, []byte(report.Payload))
	return view, nil
}

func (s *AnalyticsService) ListReports() ([]model.AnalysisReport, error) {
	return s.ReportRepo.List()
}

func (s *AnalyticsService) DeleteReport(ctx context.Context, id string) error {
	if err := s.ReportRepo.Delete(id); err != nil {
		return err
	}
	if s.Redis != nil {
		s.Redis.Del(ctx, reportCacheKey(id))
	}
	return nil
}

// LearnerModules 按需计算报告中单个学员的模块统计
func (s *AnalyticsService) LearnerModules(ctx context.Context, reportID, userID string) ([]model.ModuleStats, error) {
	report, err := s.ReportRepo.FindByID(reportID)
	if err != nil {
		return nil, err
	}

	submissions, structure, meetings, names, err := s.moduleInputs(report)
	if err != nil {
		return nil, err
	}

	return analytics.LearnerModuleStats(userID, submissions, structure, meetings, names), nil
}

// GroupModules 将每学员的模块统计在整组名单上取平均。
// 学员集合取自报告的名单和提交两份数据集，排除名单照常生效。
func (s *AnalyticsService) GroupModules(ctx context.Context, reportID string) ([]model.GroupModuleStats, error) {
	report, err := s.ReportRepo.FindByID(reportID)
	if err != nil {
		return nil, err
	}

	submissions, structure, meetings, names, err := s.moduleInputs(report)
	if err != nil {
		return nil, err
	}

	var excludedList []string
	if report.Excluded != "" {
		if err := json.Unmarshal([]byte(report.Excluded), &excludedList); err != nil {
			return nil, err
		}
	}
	excluded := analytics.NewExclusionSet(excludedList)

	var students []analytics.Row
	if report.StudentsDatasetID != "" {
		students, err = s.Datasets.LoadRows(report.StudentsDatasetID)
		if err != nil {
			return nil, err
		}
	}

	learners := make(map[string]string)
	for _, rows := range [][]analytics.Row{students, submissions} {
		for _, row := range rows {
			raw := row.Field(analytics.UserIDAliases)
			norm := analytics.NormalizeID(raw)
			if norm == "" || excluded.Contains(norm) {
				continue
			}
			if _, seen := learners[norm]; !seen {
				learners[norm] = raw
			}
		}
	}

	type groupAgg struct {
		stats    model.GroupModuleStats
		learners int
	}
	byModule := make(map[int64]*groupAgg)

	for _, rawID := range learners {
		for _, ms := range analytics.LearnerModuleStats(rawID, submissions, structure, meetings, names) {
			agg, ok := byModule[ms.ModuleID]
			if !ok {
				agg = &groupAgg{stats: model.GroupModuleStats{
					ModuleID:   ms.ModuleID,
					ModuleName: ms.ModuleName,
					Position:   ms.Position,
				}}
				byModule[ms.ModuleID] = agg
			}
			agg.learners++
			agg.stats.AvgCompletionRate += ms.CompletionRate
			agg.stats.AvgSuccessRate += ms.SuccessRate
			agg.stats.AvgAttempts += ms.AvgAttempts
		}
	}

	result := make([]model.GroupModuleStats, 0, len(byModule))
	for _, agg := range byModule {
		stats := agg.stats
		stats.Learners = agg.learners
		if agg.learners > 0 {
			stats.AvgCompletionRate /= float64(agg.learners)
			stats.AvgSuccessRate /= float64(agg.learners)
			stats.AvgAttempts /= float64(agg.learners)
		}
		result = append(result, stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].ModuleID < result[j].ModuleID
	})
	return result, nil
}

func (s *AnalyticsService) moduleInputs(report *model.AnalysisReport) (submissions, structure, meetings []analytics.Row, names map[int64]string, err error) {
	submissions, err = s.loadOptional(report.SubmissionsDatasetID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	structure, err = s.loadOptional(report.StructureDatasetID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	meetings, err = s.loadOptional(report.MeetingsDatasetID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	names, err = s.ModuleRepo.NameMap()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return submissions, structure, meetings, names, nil
}

func (s *AnalyticsService) loadOptional(datasetID string) ([]analytics.Row, error) {
	if datasetID == "" {
		return nil, nil
	}
	return s.Datasets.LoadRows(datasetID)
}

func reportCacheKey(id string) string {
	return "ilt:report:payload:" + id
}

func (s *AnalyticsService) cachePayload(ctx context.Context, id string, payload []byte) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Set(ctx, reportCacheKey(id), payload, reportCacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache report payload", zap.String("report_id", id), zap.Error(err))
	}
}

func (s *AnalyticsService) cachedPayload(ctx context.Context, id string) (*model.ReportPayload, bool) {
	if s.Redis == nil {
		return nil, false
	}
	raw, err := s.Redis.Get(ctx, reportCacheKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var payload model.ReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return &payload, true
}
