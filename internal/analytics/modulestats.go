package analytics

import (
	"fmt"
	"sort"
	"time"

	"ilt_reports_backend/internal/model"
)

type moduleRef struct {
	id       int64
	position int
}

type moduleAgg struct {
	ref      moduleRef
	attempts int
	correct  int
	steps    map[string]bool // step id -> 是否已有正确提交
	first    time.Time
	last     time.Time
}

// LearnerModuleStats 按课程模块统计单个学员的做题情况。structure 表提供
// 步骤到模块的映射和模块内步骤总数；moduleNames 由调用方预先解析好的
// 模块名称字典，缺失时回退为 "Module {id}"。输出按模块位置升序。
func LearnerModuleStats(userID string, submissions, structure, meetings []Row, moduleNames map[int64]string) []model.ModuleStats {
	target := NormalizeID(userID)
	if target == "" {
		return nil
	}

	stepModule := make(map[string]moduleRef)
	totalSteps := make(map[int64]int)
	for _, row := range structure {
		step := row.Field(StepIDAliases)
		moduleID := row.Int(ModuleIDAliases)
		if step == "" || moduleID == 0 {
			continue
		}
		if _, seen := stepModule[step]; seen {
			continue
		}
		stepModule[step] = moduleRef{
			id:       moduleID,
			position: int(row.Int(ModulePositionAliases)),
		}
		totalSteps[moduleID]++
	}

	modules := make(map[int64]*moduleAgg)
	for _, row := range submissions {
		if NormalizeID(row.Field(UserIDAliases)) != target {
			continue
		}
		step := row.Field(StepIDAliases)
		ref, ok := stepModule[step]
		if !ok {
			continue
		}

		agg, ok := modules[ref.id]
		if !ok {
			agg = &moduleAgg{ref: ref, steps: make(map[string]bool)}
			modules[ref.id] = agg
		}
		agg.attempts++
		correct := IsCorrect(row.Field(StatusAliases))
		if correct {
			agg.correct++
		}
		if correct {
			agg.steps[step] = true
		} else if _, seen := agg.steps[step]; !seen {
			agg.steps[step] = false
		}

		if ts, ok := ParseTimestamp(row.Field(TimeAliases)); ok {
			if agg.first.IsZero() || ts.Before(agg.first) {
				agg.first = ts
			}
			if agg.last.IsZero() || ts.After(agg.last) {
				agg.last = ts
			}
		}
	}

	var attendedDates []time.Time
	for _, row := range meetings {
		if NormalizeID(row.Field(UserIDAliases)) != target {
			continue
		}
		attended, _ := meetingAttendance(row)
		attendedDates = append(attendedDates, attended...)
	}

	result := make([]model.ModuleStats, 0, len(modules))
	for id, agg := range modules {
		name, ok := moduleNames[id]
		if !ok || name == "" {
			name = fmt.Sprintf("Module %d", id)
		}

		completed := 0
		for _, done := range agg.steps {
			if done {
				completed++
			}
		}

		stats := model.ModuleStats{
			ModuleID:        id,
			ModuleName:      name,
			Position:        agg.ref.position,
			TotalSteps:      totalSteps[id],
			AttemptedSteps:  len(agg.steps),
			CompletedSteps:  completed,
			TotalAttempts:   agg.attempts,
			CorrectAttempts: agg.correct,
		}
		if agg.attempts > 0 {
			stats.SuccessRate = float64(agg.correct) / float64(agg.attempts) * 100
		}
		if totalSteps[id] > 0 {
			stats.CompletionRate = float64(completed) / float64(totalSteps[id]) * 100
		}
		if len(agg.steps) > 0 {
			stats.AvgAttempts = float64(agg.attempts) / float64(len(agg.steps))
		}

		if !agg.first.IsZero() {
			stats.FirstActivity = agg.first.Format(dateLayout)
			stats.LastActivity = agg.last.Format(dateLayout)
			stats.MeetingsInRange = countMeetingsInRange(attendedDates, agg.first, agg.last)
		}

		result = append(result, stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].ModuleID < result[j].ModuleID
	})
	return result
}

// countMeetingsInRange 统计日历日落在 [first, last] 闭区间内的出勤会议数，
// 只比较日期不比较时刻
func countMeetingsInRange(dates []time.Time, first, last time.Time) int {
	firstDay := first.Format(dateLayout)
	lastDay := last.Format(dateLayout)
	count := 0
	for _, d := range dates {
		day := d.Format(dateLayout)
		if day >= firstDay && day <= lastDay {
			count++
		}
	}
	return count
}
