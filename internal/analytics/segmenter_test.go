package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentLearnersSingleLeader(t *testing.T) {
	grades := []Row{{"user_id": "A", "total": "10"}}
	submissions := []Row{{"user_id": "A", "step_id": "s1", "status": "correct", "timestamp": "2024-01-01"}}

	rows := SegmentLearners(grades, nil, submissions, nil, nil, SegmentOptions{})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "A", row.UserID)
	assert.Equal(t, 10.0, row.Total)
	assert.Equal(t, 100.0, row.TotalPct)
	assert.Equal(t, 1, row.Submissions)
	assert.Equal(t, 1, row.UniqueSteps)
	assert.Equal(t, 100.0, row.SuccessRate)
	assert.Equal(t, 1.0, row.Persistence)
	assert.Equal(t, 1.0, row.Efficiency)
	assert.Equal(t, SegmentLeaderEfficient, row.SimpleSegment)
}

func TestSegmentLearnersIdentityMerging(t *testing.T) {
	grades := []Row{{"user_id": "User1", "total": "50"}}
	students := []Row{{"user_id": " user1 ", "name": "Ada Lovelace"}}
	submissions := []Row{
		{"user_id": "USER1", "step_id": "s1", "status": "wrong"},
		{"user_id": "user1", "step_id": "s1", "status": "correct"},
	}

	rows := SegmentLearners(grades, students, submissions, nil, nil, SegmentOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, "User1", rows[0].UserID, "first-seen casing is the canonical key")
	assert.Equal(t, "Ada Lovelace", rows[0].Name)
	assert.Equal(t, 2, rows[0].Submissions)
	assert.Equal(t, 1, rows[0].UniqueSteps)
}

func TestSegmentLearnersExclusionIsCaseInsensitive(t *testing.T) {
	grades := []Row{
		{"user_id": "user1", "total": "10"},
		{"user_id": "user2", "total": "8"},
	}
	excluded := NewExclusionSet([]string{" User1 "})

	rows := SegmentLearners(grades, nil, nil, nil, excluded, SegmentOptions{})
	require.Len(t, rows, 1)
	assert.Equal(t, "user2", rows[0].UserID)
}

func TestSegmentLearnersRosterOnlyLearner(t *testing.T) {
	grades := []Row{{"user_id": "A", "total": "10"}}
	students := []Row{
		{"user_id": "A", "name": "Ada"},
		{"user_id": "B", "name": "Bob"},
	}

	rows := SegmentLearners(grades, students, nil, nil, nil, SegmentOptions{})
	require.Len(t, rows, 2)

	found := false
	for _, row := range rows {
		if row.UserID != "B" {
			continue
		}
		found = true
		assert.Equal(t, 0.0, row.TotalPct)
		assert.Equal(t, 0, row.Submissions)
		assert.Equal(t, SegmentLowEngagement, row.SimpleSegment)
	}
	require.True(t, found, "roster-only learner must still get a row")
}

func TestSegmentLearnersAllZeroTotals(t *testing.T) {
	grades := []Row{
		{"user_id": "A", "total": "0"},
		{"user_id": "B", "total": "0"},
	}
	rows := SegmentLearners(grades, nil, nil, nil, nil, SegmentOptions{})
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 0.0, row.TotalPct)
	}
}

func TestSegmentLearnersSortedByTotalPctDesc(t *testing.T) {
	grades := []Row{
		{"user_id": "low", "total": "2"},
		{"user_id": "top", "total": "10"},
		{"user_id": "mid", "total": "5"},
	}
	rows := SegmentLearners(grades, nil, nil, nil, nil, SegmentOptions{})
	require.Len(t, rows, 3)
	assert.Equal(t, "top", rows[0].UserID)
	assert.Equal(t, "mid", rows[1].UserID)
	assert.Equal(t, "low", rows[2].UserID)
	assert.Equal(t, 100.0, rows[0].TotalPct)
}

func TestSegmentLearnersMeetings(t *testing.T) {
	grades := []Row{
		{"user_id": "A", "total": "85"},
		{"user_id": "B", "total": "100"},
	}
	meetings := []Row{
		{
			"user_id":          "A",
			"[01.02.2024] m1":  "1",
			"[08.02.2024] m2":  "1",
			"[15.02.2024] m3":  "1",
			"[22.02.2024] m4 ": "0",
		},
	}

	rows := SegmentLearners(grades, nil, nil, meetings, nil, SegmentOptions{UseMeetings: true})
	require.Len(t, rows, 2)

	for _, row := range rows {
		if row.UserID == "A" {
			assert.Equal(t, 3, row.MeetingsCount)
			assert.Equal(t, 75.0, row.MeetingsPct)
			assert.Equal(t, SegmentLeaderEngaged, row.SimpleSegment)
		}
	}
}

func TestClassifySegment(t *testing.T) {
	cases := []struct {
		name        string
		totalPct    float64
		meetingsPct float64
		persistence float64
		submissions int
		useMeetings bool
		want        string
	}{
		{"leader engaged", 85, 75, 10, 50, true, SegmentLeaderEngaged},
		{"leader efficient with meetings", 85, 10, 2, 50, true, SegmentLeaderEfficient},
		{"leader efficient without meetings", 85, 0, 2, 50, false, SegmentLeaderEfficient},
		{"leader heavy persistence falls through", 85, 0, 8, 50, false, SegmentBalancedMiddle},
		{"balanced engaged", 50, 65, 2, 30, true, SegmentBalancedEngaged},
		{"socially active", 20, 55, 2, 10, true, SegmentSociallyActive},
		{"hardworking but struggling", 20, 0, 6, 40, false, SegmentHardworking},
		{"low engagement", 20, 0, 2, 5, false, SegmentLowEngagement},
		{"balanced middle", 50, 0, 4, 40, false, SegmentBalancedMiddle},
		{"first match wins over later branches", 85, 75, 2, 50, true, SegmentLeaderEngaged},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifySegment(tc.totalPct, tc.meetingsPct, tc.persistence, tc.submissions, tc.useMeetings)
			assert.Equal(t, tc.want, got)
		})
	}
}

// 两个处理器必须覆盖完全相同的学员集合
func TestLearnerSetParity(t *testing.T) {
	grades := []Row{{"user_id": "A", "total": "10"}}
	students := []Row{{"user_id": "B", "name": "Bob"}}
	submissions := []Row{{"user_id": "C", "step_id": "s1", "status": "correct", "timestamp": "2024-01-01"}}
	excluded := NewExclusionSet([]string{"b"})

	perf := SegmentLearners(grades, students, submissions, nil, excluded, SegmentOptions{})
	summary, _ := BuildActivityCurves(grades, students, submissions, nil, excluded, DefaultEasingOptions())

	require.Equal(t, len(perf), len(summary))
	perfIDs := make(map[string]struct{})
	for _, p := range perf {
		perfIDs[p.UserID] = struct{}{}
	}
	for _, s := range summary {
		_, ok := perfIDs[s.UserID]
		assert.True(t, ok, "summary learner %q missing from performance rows", s.UserID)
	}
}
