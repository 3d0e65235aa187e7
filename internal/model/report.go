package model

// ReportSettings 一次分析运行的配置，随报告原样保存
type ReportSettings struct {
	UseMeetings     bool    `json:"useMeetings"`     // 分层是否考虑会议出勤
	IncludeMeetings bool    `json:"includeMeetings"` // 活动曲线是否计入会议出勤
	PlatformWeight  float64 `json:"platformWeight"`  // α
	MeetingWeight   float64 `json:"meetingWeight"`   // β
}

// AnalysisReport 一次分析运行的持久化记录，结果数组按 JSON 原样存储
type AnalysisReport struct {
	UUIDBase
	Title                string `gorm:"size:255" json:"title"`
	GradesDatasetID      string `gorm:"type:varchar(36)" json:"gradesDatasetId"`
	StudentsDatasetID    string `gorm:"type:varchar(36)" json:"studentsDatasetId"`
	SubmissionsDatasetID string `gorm:"type:varchar(36)" json:"submissionsDatasetId"`
	MeetingsDatasetID    string `gorm:"type:varchar(36)" json:"meetingsDatasetId"`
	StructureDatasetID   string `gorm:"type:varchar(36)" json:"structureDatasetId"`
	Settings             string `gorm:"type:text" json:"-"` // ReportSettings 的 JSON
	Excluded             string `gorm:"type:text" json:"-"` // 排除学员列表的 JSON
	Payload              string `gorm:"type:longtext" json:"-"` // ReportPayload 的 JSON
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}
