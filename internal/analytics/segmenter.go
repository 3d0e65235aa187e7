package analytics

import (
	"sort"

	"ilt_reports_backend/internal/model"
)

// 分层标签，顺序敏感的决策树自上而下取第一个命中的分支
const (
	SegmentLeaderEngaged   = "Leader engaged"
	SegmentLeaderEfficient = "Leader efficient"
	SegmentBalancedEngaged = "Balanced + engaged"
	SegmentSociallyActive  = "Low engagement but socially active"
	SegmentHardworking     = "Hardworking but struggling"
	SegmentLowEngagement   = "Low engagement"
	SegmentBalancedMiddle  = "Balanced middle"
)

// SegmentOptions 成绩分层配置
type SegmentOptions struct {
	UseMeetings bool // 是否将会议出勤纳入分层决策
}

type submissionStats struct {
	count   int
	correct int
	steps   map[string]struct{}
}

type meetingStats struct {
	count int
	pct   float64
}

// identityIndex 记录归一化标识到首次出现的原始写法的映射，
// 原始写法用作输出键，归一化写法用于合并和排除
type identityIndex struct {
	order     []string
	canonical map[string]string
}

func newIdentityIndex() *identityIndex {
	return &identityIndex{canonical: make(map[string]string)}
}

func (ix *identityIndex) add(rawID string) string {
	norm := NormalizeID(rawID)
	if norm == "" {
		return ""
	}
	if _, seen := ix.canonical[norm]; !seen {
		ix.canonical[norm] = rawID
		ix.order = append(ix.order, norm)
	}
	return norm
}

// SegmentLearners 将成绩、名单、提交和出勤四张表聚合为每个学员一行的
// 分层结果。名单内没有提交记录的学员也会得到一行零指标结果。
// 输出按总分百分比降序排列。
func SegmentLearners(grades, students, submissions, meetings []Row, excluded ExclusionSet, opts SegmentOptions) []model.PerformanceRow {
	ids := newIdentityIndex()
	names := make(map[string]string)
	totals := make(map[string]float64)
	maxTotal := 0.0

	for _, row := range grades {
		rawID := row.Field(UserIDAliases)
		norm := ids.add(rawID)
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
		rawID := row.Field(UserIDAliases)
		norm := ids.add(rawID)
		if norm == "" {
			continue
		}
		if name := row.Field(NameAliases); name != "" {
			names[norm] = name
		}
	}

	subs := make(map[string]*submissionStats)
	for _, row := range submissions {
		rawID := row.Field(UserIDAliases)
		norm := ids.add(rawID)
		if norm == "" {
			continue
		}
		st, ok := subs[norm]
		if !ok {
			st = &submissionStats{steps: make(map[string]struct{})}
			subs[norm] = st
		}
		st.count++
		if IsCorrect(row.Field(StatusAliases)) {
			st.correct++
		}
		if step := row.Field(StepIDAliases); step != "" {
			st.steps[step] = struct{}{}
		}
	}

	meets := make(map[string]meetingStats)
	if opts.UseMeetings {
		for _, row := range meetings {
			norm := NormalizeID(row.Field(UserIDAliases))
			if norm == "" {
				continue
			}
			attended, total := meetingAttendance(row)
			ms := meetingStats{count: len(attended)}
			if total > 0 {
				ms.pct = float64(len(attended)) / float64(total) * 100
			}
			meets[norm] = ms
		}
	}

	var result []model.PerformanceRow
	for _, norm := range ids.order {
		if _, skip := excluded[norm]; skip {
			continue
		}

		total := totals[norm]
		totalPct := 0.0
		if maxTotal > 0 {
			totalPct = total / maxTotal * 100
		}

		row := model.PerformanceRow{
			UserID:   ids.canonical[norm],
			Name:     names[norm],
			Total:    total,
			TotalPct: totalPct,
		}

		if st, ok := subs[norm]; ok {
			row.Submissions = st.count
			row.UniqueSteps = len(st.steps)
			if st.count > 0 {
				row.SuccessRate = float64(st.correct) / float64(st.count) * 100
			}
			if len(st.steps) > 0 {
				row.Persistence = float64(st.count) / float64(len(st.steps))
				row.Efficiency = float64(st.correct) / float64(len(st.steps))
			}
		}

		ms := meets[norm]
		row.MeetingsCount = ms.count
		row.MeetingsPct = ms.pct

		row.SimpleSegment = classifySegment(row.TotalPct, ms.pct, row.Persistence, row.Submissions, opts.UseMeetings)
		result = append(result, row)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalPct > result[j].TotalPct
	})
	return result
}

// classifySegment 固定顺序的分层决策树，自上而下第一个命中的分支生效
func classifySegment(totalPct, meetingsPct, persistence float64, submissions int, useMeetings bool) string {
	if useMeetings {
		switch {
		case totalPct >= 80 && meetingsPct >= 70:
			return SegmentLeaderEngaged
		case totalPct >= 80 && persistence <= 3:
			return SegmentLeaderEfficient
		case totalPct >= 30 && totalPct < 80 && meetingsPct >= 60:
			return SegmentBalancedEngaged
		case totalPct < 30 && meetingsPct >= 50:
			return SegmentSociallyActive
		}
	} else if totalPct >= 80 && persistence <= 3 {
		return SegmentLeaderEfficient
	}

	switch {
	case totalPct < 30 && persistence >= 5:
		return SegmentHardworking
	case totalPct < 30 && submissions < 20:
		return SegmentLowEngagement
	default:
		return SegmentBalancedMiddle
	}
}
