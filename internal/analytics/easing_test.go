package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilt_reports_backend/internal/model"
)

func TestBuildActivityCurvesBasicCurve(t *testing.T) {
	grades := []Row{{"user_id": "A", "total": "10"}}
	submissions := []Row{
		{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "2024-01-01"},
		{"user_id": "A", "step_id": "s2", "status": "wrong", "timestamp": "2024-01-03"},
		{"user_id": "A", "step_id": "s3", "status": "correct", "timestamp": "2024-01-05"},
	}

	summary, series := BuildActivityCurves(grades, nil, submissions, nil, nil, DefaultEasingOptions())
	require.Len(t, summary, 1)
	require.Len(t, series, 3)

	// x 按日期单调不减，最后一个点的 y_norm 恰好为 1.0
	for i := 1; i < len(series); i++ {
		assert.GreaterOrEqual(t, series[i].XNorm, series[i-1].XNorm)
		assert.GreaterOrEqual(t, series[i].YNorm, series[i-1].YNorm)
	}
	assert.Equal(t, 1.0, series[len(series)-1].YNorm)

	assert.Equal(t, "2024-01-01", series[0].Date)
	assert.Equal(t, 0, series[0].DayIndex)
	assert.Equal(t, 2, series[1].DayIndex)
	assert.Equal(t, 4, series[2].DayIndex)
	assert.InDelta(t, 0.5, series[1].XNorm, 1e-9)

	s := summary[0]
	assert.Equal(t, 0.0, s.T25)
	assert.InDelta(t, 0.5, s.T50, 1e-9)
	assert.Equal(t, 1.0, s.T75)
	assert.InDelta(t, 0.0, s.FrontloadIndex, 1e-9)
	assert.Equal(t, model.ControlPoint{X: s.T25, Y: 0.25}, s.P1)
	assert.Equal(t, model.ControlPoint{X: s.T75, Y: 0.75}, s.P2)
}

func TestBuildActivityCurvesFrontloaded(t *testing.T) {
	submissions := []Row{
		{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "2024-01-01"},
		{"user_id": "A", "step_id": "s2", "status": "correct", "timestamp": "2024-01-02"},
		{"user_id": "A", "step_id": "s3", "status": "wrong", "timestamp": "2024-01-11"},
	}

	summary, _ := BuildActivityCurves(nil, nil, submissions, nil, nil, DefaultEasingOptions())
	require.Len(t, summary, 1)

	s := summary[0]
	assert.Greater(t, s.FrontloadIndex, 0.10)
	assert.Equal(t, EasingEaseOut, s.EasingLabel, "front-loaded activity keeps the source labelling")
	assert.GreaterOrEqual(t, s.FrontloadIndex, -0.5)
	assert.LessOrEqual(t, s.FrontloadIndex, 0.5)
}

func TestBuildActivityCurvesBackloaded(t *testing.T) {
	submissions := []Row{
		{"user_id": "A", "step_id": "s1", "status": "wrong", "timestamp": "2024-01-01"},
		{"user_id": "A", "step_id": "s2", "status": "correct", "timestamp": "2024-01-10"},
		{"user_id": "A", "step_id": "s3", "status": "correct", "timestamp": "2024-01-11"},
	}

	summary, _ := BuildActivityCurves(nil, nil, submissions, nil, nil, DefaultEasingOptions())
	require.Len(t, summary, 1)
	assert.Less(t, summary[0].FrontloadIndex, -0.10)
	assert.Equal(t, EasingEaseIn, summary[0].EasingLabel)
}

func TestBuildActivityCurvesSentinel(t *testing.T) {
	grades := []Row{{"user_id": "A", "total": "10"}}

	summary, series := BuildActivityCurves(grades, nil, nil, nil, nil, DefaultEasingOptions())
	require.Len(t, summary, 1)
	require.Len(t, series, 1)

	s := summary[0]
	assert.Equal(t, EasingNoActivity, s.EasingLabel)
	assert.Equal(t, 1.0, s.T25)
	assert.Equal(t, 1.0, s.T50)
	assert.Equal(t, 1.0, s.T75)
	assert.Equal(t, -0.5, s.FrontloadIndex)

	assert.Equal(t, "A", series[0].UserID)
	assert.Equal(t, 0.0, series[0].YNorm)
}

func TestBuildActivityCurvesUnparseableTimestampsSkipped(t *testing.T) {
	submissions := []Row{
		{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "not a date"},
	}

	summary, _ := BuildActivityCurves(nil, nil, submissions, nil, nil, DefaultEasingOptions())
	require.Len(t, summary, 1)
	assert.Equal(t, EasingNoActivity, summary[0].EasingLabel)
}

func TestBuildActivityCurvesMeetings(t *testing.T) {
	meetingRow := Row{
		"user_id":                "A",
		"[01.02.2024] standup":   "1",
		"[01.02.2024] retro":     "1", // 同一天的第二场会议不叠加权重
		"[08.02.2024] planning":  "1",
		"[15.02.2024] follow-up": "0",
	}
	students := []Row{{"user_id": "A", "name": "Ada"}}

	summary, series := BuildActivityCurves(nil, students, nil, []Row{meetingRow}, nil, DefaultEasingOptions())
	require.Len(t, summary, 1)
	require.Len(t, series, 2)

	assert.Equal(t, 1.5, series[0].MeetingWeight)
	assert.Equal(t, 0.0, series[0].PlatformWeight)
	assert.Equal(t, 1.5, series[1].MeetingWeight)
	assert.Equal(t, 1.0, series[1].YNorm)

	t.Run("meetings excluded from curve", func(t *testing.T) {
		summary, _ := BuildActivityCurves(nil, students, nil, []Row{meetingRow}, nil, EasingOptions{
			IncludeMeetings: false,
			PlatformWeight:  1.0,
			MeetingWeight:   1.5,
		})
		require.Len(t, summary, 1)
		assert.Equal(t, EasingNoActivity, summary[0].EasingLabel)
	})
}

func TestBuildActivityCurvesSingleDay(t *testing.T) {
	submissions := []Row{
		{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "2024-03-10"},
	}

	summary, series := BuildActivityCurves(nil, nil, submissions, nil, nil, DefaultEasingOptions())
	require.Len(t, series, 1)
	assert.Equal(t, 0.0, series[0].XNorm)
	assert.Equal(t, 1.0, series[0].YNorm)
	assert.Equal(t, 0.5, summary[0].FrontloadIndex)
	assert.Equal(t, EasingEaseOut, summary[0].EasingLabel)
}

func TestQuartileCrossingDefaults(t *testing.T) {
	points := []curvePoint{{x: 0, y: 0.1}, {x: 0.4, y: 0.3}, {x: 0.8, y: 0.6}}

	assert.InDelta(t, 0.4, quartileCrossing(points, 0.25), 1e-9)
	assert.InDelta(t, 0.8, quartileCrossing(points, 0.50), 1e-9)
	assert.Equal(t, 1.0, quartileCrossing(points, 0.75), "threshold never crossed defaults to 1.0")
	assert.Equal(t, 1.0, quartileCrossing(nil, 0.25))
}

func TestClassifyEasing(t *testing.T) {
	cases := []struct {
		name           string
		frontloadIndex float64
		t25, t50, t75  float64
		want           string
	}{
		{"ease-out wins first regardless of other fields", 0.15, 0.2, 0.35, 0.9, EasingEaseOut},
		{"ease-in", -0.15, 0.5, 0.65, 0.9, EasingEaseIn},
		{"linear by quartile spread", 0.05, 0.2, 0.45, 0.72, EasingLinear},
		{"linear by midpoint", 0.04, 0.1, 0.46, 0.95, EasingLinear},
		{"ease-in-out", 0.08, 0.3, 0.42, 0.96, EasingEaseInOut},
		{"ease fallback", 0.08, 0.45, 0.42, 0.62, EasingEase},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyEasing(tc.frontloadIndex, tc.t25, tc.t50, tc.t75))
		})
	}
}
