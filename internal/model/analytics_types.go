package model

// PerformanceRow 单个学员的成绩分层结果
type PerformanceRow struct {
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
	TotalPct      float64 `json:"totalPct"` // 相对观测到的最高总分的百分比，0-100
	Submissions   int     `json:"submissions"`
	UniqueSteps   int     `json:"uniqueSteps"`
	SuccessRate   float64 `json:"successRate"` // 正确提交占比，0-100
	Persistence   float64 `json:"persistence"` // 每个尝试过的步骤的平均提交次数
	Efficiency    float64 `json:"efficiency"`  // 每个尝试过的步骤的平均正确提交数
	SimpleSegment string  `json:"simpleSegment"`
	MeetingsCount int     `json:"meetingsCount"`
	MeetingsPct   float64 `json:"meetingsPct"` // 出席的会议占比，0-100
}

// ControlPoint 贝塞尔曲线控制点
type ControlPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DynamicSummaryRow 单个学员的活动曲线形状摘要
type DynamicSummaryRow struct {
	UserID         string       `json:"userId"`
	Name           string       `json:"name"`
	P1             ControlPoint `json:"p1"`
	P2             ControlPoint `json:"p2"`
	T25            float64      `json:"t25"` // 累计活动首次达到25%的归一化时间
	T50            float64      `json:"t50"`
	T75            float64      `json:"t75"`
	FrontloadIndex float64      `json:"frontloadIndex"` // 0.5 - t50，正值表示前置学习
	EasingLabel    string       `json:"easingLabel"`
	Total          float64      `json:"total"`
	TotalPct       float64      `json:"totalPct"`
}

// DynamicSeriesRow 活动曲线上的单个采样点（每学员每活跃日一条）
type DynamicSeriesRow struct {
	UserID         string  `json:"userId"`
	Date           string  `json:"date"` // YYYY-MM-DD
	DayIndex       int     `json:"dayIndex"`
	XNorm          float64 `json:"xNorm"`
	PlatformWeight float64 `json:"platformWeight"`
	MeetingWeight  float64 `json:"meetingWeight"`
	DayTotal       float64 `json:"dayTotal"`
	Cumulative     float64 `json:"cumulative"`
	YNorm          float64 `json:"yNorm"`
}

// ModuleStats 单个学员在某个课程模块上的做题统计
type ModuleStats struct {
	ModuleID        int64   `json:"moduleId"`
	ModuleName      string  `json:"moduleName"`
	Position        int     `json:"position"`
	TotalSteps      int     `json:"totalSteps"` // 结构表中定义的步骤数，与尝试无关
	AttemptedSteps  int     `json:"attemptedSteps"`
	CompletedSteps  int     `json:"completedSteps"`
	TotalAttempts   int     `json:"totalAttempts"`
	CorrectAttempts int     `json:"correctAttempts"`
	SuccessRate     float64 `json:"successRate"`
	CompletionRate  float64 `json:"completionRate"`
	AvgAttempts     float64 `json:"avgAttemptsPerStep"`
	MeetingsInRange int     `json:"meetingsInRange"`
	FirstActivity   string  `json:"firstActivity"` // YYYY-MM-DD，无活动时为空
	LastActivity    string  `json:"lastActivity"`
}

// GroupModuleStats 按模块聚合整组学员后的平均指标
type GroupModuleStats struct {
	ModuleID          int64   `json:"moduleId"`
	ModuleName        string  `json:"moduleName"`
	Position          int     `json:"position"`
	Learners          int     `json:"learners"` // 在该模块有过尝试的学员数
	AvgCompletionRate float64 `json:"avgCompletionRate"`
	AvgSuccessRate    float64 `json:"avgSuccessRate"`
	AvgAttempts       float64 `json:"avgAttemptsPerStep"`
}

// ReportPayload 一次分析运行产出的全部结果
type ReportPayload struct {
	Performance []PerformanceRow    `json:"performance"`
	Summary     []DynamicSummaryRow `json:"summary"`
	Series      []DynamicSeriesRow  `json:"series"`
}
