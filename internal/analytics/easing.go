package analytics

import (
	"math"
	"sort"
	"time"

	"ilt_reports_backend/internal/model"
)

// 活动曲线形状标签。注意约定：前置型学习曲线标记为 "ease-out"，
// 后置型标记为 "ease-in"，与动画缓动的习惯叫法相反。
const (
	EasingEaseIn     = "ease-in"
	EasingEaseOut    = "ease-out"
	EasingEaseInOut  = "ease-in-out"
	EasingLinear     = "linear"
	EasingEase       = "ease"
	EasingNoActivity = "no-activity"
)

// EasingOptions 活动曲线构建配置
type EasingOptions struct {
	IncludeMeetings bool    // 是否将会议出勤计入活动量
	PlatformWeight  float64 // α，平台提交的权重系数
	MeetingWeight   float64 // β，会议出勤的权重系数
}

// DefaultEasingOptions 默认权重 α=1.0、β=1.5，会议计入活动量
func DefaultEasingOptions() EasingOptions {
	return EasingOptions{
		IncludeMeetings: true,
		PlatformWeight:  1.0,
		MeetingWeight:   1.5,
	}
}

const dateLayout = "2006-01-02"

// 每日活动量，按 UTC 日历日分桶
type dailyActivity struct {
	platform float64
	meeting  bool
}

// BuildActivityCurves 为每个学员构建按日累计的活动曲线，归一化到单位
// 正方形后提取四分位到达时间、前置指数和形状标签。无可测活动的学员
// 得到哨兵行而非被省略，保证与 SegmentLearners 覆盖同一学员集合。
func BuildActivityCurves(grades, students, submissions, meetings []Row, excluded ExclusionSet, opts EasingOptions) ([]model.DynamicSummaryRow, []model.DynamicSeriesRow) {
	if opts.PlatformWeight <= 0 {
		opts.PlatformWeight = 1.0
	}
	if opts.MeetingWeight <= 0 {
		opts.MeetingWeight = 1.5
	}

	ids := newIdentityIndex()
	names := make(map[string]string)
	totals := make(map[string]float64)
	maxTotal := 0.0

	for _, row := range grades {
		norm := ids.add(row.Field(UserIDAliases))
		if norm == "" {
			continue
		}
		total := row.Float(TotalAliases)
		totals[norm] = total
		if total > maxTotal {
			maxTotal = total
		}
	}
	for _, row := range students {
		norm := ids.add(row.Field(UserIDAliases))
		if norm == "" {
			continue
		}
		if name := row.Field(NameAliases); name != "" {
			names[norm] = name
		}
	}

	// 学员 -> 日期(YYYY-MM-DD) -> 当日活动
	activity := make(map[string]map[string]*dailyActivity)
	day := func(norm, date string) *dailyActivity {
		days, ok := activity[norm]
		if !ok {
			days = make(map[string]*dailyActivity)
			activity[norm] = days
		}
		d, ok := days[date]
		if !ok {
			d = &dailyActivity{}
			days[date] = d
		}
		return d
	}

	for _, row := range submissions {
		norm := ids.add(row.Field(UserIDAliases))
		if norm == "" {
			continue
		}
		ts, ok := ParseTimestamp(row.Field(TimeAliases))
		if !ok {
			continue
		}
		weight := 0.25
		if IsCorrect(row.Field(StatusAliases)) {
			weight = 1.0
		}
		day(norm, ts.Format(dateLayout)).platform += weight
	}

	if opts.IncludeMeetings {
		for _, row := range meetings {
			norm := NormalizeID(row.Field(UserIDAliases))
			if norm == "" {
				continue
			}
			if _, known := ids.canonical[norm]; !known {
				continue
			}
			attended, _ := meetingAttendance(row)
			for _, date := range attended {
				// 出勤按当日有无计权，同日多场会议不叠加
				day(norm, date.Format(dateLayout)).meeting = true
			}
		}
	}

	var summary []model.DynamicSummaryRow
	var series []model.DynamicSeriesRow

	for _, norm := range ids.order {
		if _, skip := excluded[norm]; skip {
			continue
		}

		total := totals[norm]
		totalPct := 0.0
		if maxTotal > 0 {
			totalPct = total / maxTotal * 100
		}
		base := model.DynamicSummaryRow{
			UserID:   ids.canonical[norm],
			Name:     names[norm],
			Total:    total,
			TotalPct: totalPct,
		}

		rows, points := learnerCurve(ids.canonical[norm], activity[norm], opts)
		if points == nil {
			summary = append(summary, sentinelSummary(base))
			series = append(series, model.DynamicSeriesRow{UserID: ids.canonical[norm]})
			continue
		}

		t25 := quartileCrossing(points, 0.25)
		t50 := quartileCrossing(points, 0.50)
		t75 := quartileCrossing(points, 0.75)

		base.P1 = model.ControlPoint{X: t25, Y: 0.25}
		base.P2 = model.ControlPoint{X: t75, Y: 0.75}
		base.T25 = t25
		base.T50 = t50
		base.T75 = t75
		base.FrontloadIndex = 0.5 - t50
		base.EasingLabel = classifyEasing(base.FrontloadIndex, t25, t50, t75)

		summary = append(summary, base)
		series = append(series, rows...)
	}

	return summary, series
}

type curvePoint struct {
	x float64
	y float64
}

// learnerCurve 生成单个学员按日期升序的活动序列。没有活跃日或累计
// 活动量不为正时返回 nil，调用方输出哨兵行，不做曲线拟合。
func learnerCurve(canonicalID string, days map[string]*dailyActivity, opts EasingOptions) ([]model.DynamicSeriesRow, []curvePoint) {
	if len(days) == 0 {
		return nil, nil
	}

	dates := make([]string, 0, len(days))
	totalSum := 0.0
	for date, d := range days {
		dates = append(dates, date)
		totalSum += dayTotal(d, opts)
	}
	if totalSum <= 0 {
		return nil, nil
	}
	sort.Strings(dates)

	first, _ := time.Parse(dateLayout, dates[0])
	last, _ := time.Parse(dateLayout, dates[len(dates)-1])
	span := math.Max(1, last.Sub(first).Hours()/24)

	rows := make([]model.DynamicSeriesRow, 0, len(dates))
	points := make([]curvePoint, 0, len(dates))
	cumulative := 0.0

	for _, date := range dates {
		d := days[date]
		current, _ := time.Parse(dateLayout, date)
		offset := int(current.Sub(first).Hours() / 24)

		platform := opts.PlatformWeight * d.platform
		meeting := 0.0
		if d.meeting {
			meeting = opts.MeetingWeight
		}
		dt := platform + meeting
		cumulative += dt

		x := float64(offset) / span
		y := cumulative / totalSum

		rows = append(rows, model.DynamicSeriesRow{
			UserID:         canonicalID,
			Date:           date,
			DayIndex:       offset,
			XNorm:          x,
			PlatformWeight: platform,
			MeetingWeight:  meeting,
			DayTotal:       dt,
			Cumulative:     cumulative,
			YNorm:          y,
		})
		points = append(points, curvePoint{x: x, y: y})
	}

	return rows, points
}

func dayTotal(d *dailyActivity, opts EasingOptions) float64 {
	total := opts.PlatformWeight * d.platform
	if d.meeting {
		total += opts.MeetingWeight
	}
	return total
}

// quartileCrossing 返回累计占比首次达到阈值的最小 x；从未到达时取 1.0
func quartileCrossing(points []curvePoint, threshold float64) float64 {
	for _, p := range points {
		if p.y >= threshold {
			return p.x
		}
	}
	return 1.0
}

// classifyEasing 固定顺序的形状分类规则，第一个命中的分支生效
func classifyEasing(frontloadIndex, t25, t50, t75 float64) string {
	switch {
	case frontloadIndex > 0.10:
		return EasingEaseOut
	case frontloadIndex < -0.10:
		return EasingEaseIn
	case math.Abs((t75-t25)-0.5) < 0.10:
		return EasingLinear
	case math.Abs(t50-0.5) < 0.05:
		return EasingLinear
	case t25 < 0.4 && t75 > 0.6:
		return EasingEaseInOut
	default:
		return EasingEase
	}
}

// sentinelSummary 无活动学员的占位摘要：四分位全部记为"从未到达"
func sentinelSummary(base model.DynamicSummaryRow) model.DynamicSummaryRow {
	base.P1 = model.ControlPoint{X: 1, Y: 0.25}
	base.P2 = model.ControlPoint{X: 1, Y: 0.75}
	base.T25 = 1
	base.T50 = 1
	base.T75 = 1
	base.FrontloadIndex = -0.5
	base.EasingLabel = EasingNoActivity
	return base
}
