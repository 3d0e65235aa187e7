package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learnerFixture() (submissions, structure []Row) {
	structure = []Row{
		{"step_id": "s1", "module_id": "1", "module_position": "1"},
		{"step_id": "s2", "module_id": "1", "module_position": "1"},
		{"step_id": "s3", "module_id": "2", "module_position": "2"},
		{"step_id": "s4", "module_id": "2", "module_position": "2"},
		{"step_id": "s5", "module_id": "2", "module_position": "2"},
	}
	submissions = []Row{
		{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "2024-01-01"},
		{"user_id": "A", "step_id": "s1", "status": "wrong", "timestamp": "2024-01-02"},
		{"user_id": "A", "step_id": "s3", "status": "wrong", "timestamp": "2024-01-05"},
		{"user_id": "B", "step_id": "s2", "status": "correct", "timestamp": "2024-01-03"},
		{"user_id": "A", "step_id": "unknown", "status": "correct", "timestamp": "2024-01-04"},
	}
	return submissions, structure
}

func TestLearnerModuleStats(t *testing.T) {
	submissions, structure := learnerFixture()
	names := map[int64]string{1: "Basics"}

	stats := LearnerModuleStats("a", submissions, structure, nil, names)
	require.Len(t, stats, 2)

	m1 := stats[0]
	assert.Equal(t, int64(1), m1.ModuleID)
	assert.Equal(t, "Basics", m1.ModuleName)
	assert.Equal(t, 1, m1.Position)
	assert.Equal(t, 2, m1.TotalSteps)
	assert.Equal(t, 1, m1.AttemptedSteps)
	assert.Equal(t, 1, m1.CompletedSteps)
	assert.Equal(t, 2, m1.TotalAttempts)
	assert.Equal(t, 1, m1.CorrectAttempts)
	assert.Equal(t, 50.0, m1.SuccessRate)
	assert.Equal(t, 50.0, m1.CompletionRate)
	assert.Equal(t, 2.0, m1.AvgAttempts)
	assert.Equal(t, "2024-01-01", m1.FirstActivity)
	assert.Equal(t, "2024-01-02", m1.LastActivity)

	m2 := stats[1]
	assert.Equal(t, int64(2), m2.ModuleID)
	assert.Equal(t, "Module 2", m2.ModuleName, "missing directory entry falls back to a generated name")
	assert.Equal(t, 3, m2.TotalSteps, "total steps come from the structure table, not from attempts")
	assert.Equal(t, 0, m2.CompletedSteps)
	assert.Equal(t, 0.0, m2.CompletionRate)
	assert.Equal(t, 0.0, m2.SuccessRate)
}

func TestLearnerModuleStatsMeetingWindow(t *testing.T) {
	submissions, structure := learnerFixture()
	meetings := []Row{
		{
			"user_id":              "A",
			"[02.01.2024] weekly":  "1",
			"[05.01.2024] weekly":  "1",
			"[20.01.2024] закрыто": "1",
		},
	}

	stats := LearnerModuleStats("A", submissions, structure, meetings, nil)
	require.Len(t, stats, 2)

	// 模块1活动窗口 [01-01, 01-02]：只有 02.01 的会议落入区间
	assert.Equal(t, 1, stats[0].MeetingsInRange)
	// 模块2活动窗口 [01-05, 01-05]：05.01 的会议按日期闭区间计入
	assert.Equal(t, 1, stats[1].MeetingsInRange)
}

func TestLearnerModuleStatsEpochTimestamps(t *testing.T) {
	structure := []Row{{"step_id": "s1", "module_id": "1", "module_position": "1"}}
	submissions := []Row{
		// Unix 秒和毫秒混用，按数量级阈值自动识别
		{"user_id": "A", "step_id": "s1", "status": "wrong", "timestamp": "1704067200"},
		{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "1704153600000"},
	}

	stats := LearnerModuleStats("A", submissions, structure, nil, nil)
	require.Len(t, stats, 1)
	assert.Equal(t, "2024-01-01", stats[0].FirstActivity)
	assert.Equal(t, "2024-01-02", stats[0].LastActivity)
}

func TestLearnerModuleStatsEmptyInputs(t *testing.T) {
	assert.Nil(t, LearnerModuleStats("", nil, nil, nil, nil))
	assert.Empty(t, LearnerModuleStats("A", nil, nil, nil, nil))
}
