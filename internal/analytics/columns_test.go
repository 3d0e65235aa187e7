package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumn(t *testing.T) {
	t.Run("case and spacing insensitive", func(t *testing.T) {
		row := Row{"  User ID ": "42", "Full Name": "Ada"}

		key, ok := ResolveColumn(row, UserIDAliases)
		require.True(t, ok)
		assert.Equal(t, "  User ID ", key)

		key, ok = ResolveColumn(row, NameAliases)
		require.True(t, ok)
		assert.Equal(t, "Full Name", key)
	})

	t.Run("alias order decides priority", func(t *testing.T) {
		row := Row{"score": "5", "total": "10"}
		key, ok := ResolveColumn(row, TotalAliases)
		require.True(t, ok)
		assert.Equal(t, "total", key)
	})

	t.Run("missing column is not an error", func(t *testing.T) {
		row := Row{"unrelated": "x"}
		_, ok := ResolveColumn(row, UserIDAliases)
		assert.False(t, ok)
		assert.Equal(t, "", row.Field(UserIDAliases))
		assert.Equal(t, 0.0, row.Float(TotalAliases))
	})
}

func TestRowCoercion(t *testing.T) {
	row := Row{"total": "12,5", "step_id": " s1 ", "position": "3.0"}

	assert.Equal(t, 12.5, row.Float(TotalAliases))
	assert.Equal(t, "s1", row.Field(StepIDAliases))
	assert.Equal(t, int64(3), row.Int(ModulePositionAliases))

	bad := Row{"total": "n/a"}
	assert.Equal(t, 0.0, bad.Float(TotalAliases))
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"date only", "2024-01-15", "2024-01-15", true},
		{"datetime", "2024-01-15 10:30:00", "2024-01-15", true},
		{"rfc3339", "2024-01-15T10:30:00Z", "2024-01-15", true},
		{"unix seconds", "1705312200", "2024-01-15", true},
		{"unix milliseconds", "1705312200000", "2024-01-15", true},
		{"garbage", "yesterday", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts, ok := ParseTimestamp(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, ts.Format("2006-01-02"))
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "yes", "+", "attended", "present"} {
		assert.True(t, Truthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "-", "absent", "  "} {
		assert.False(t, Truthy(v), v)
	}
}

func TestExclusionSet(t *testing.T) {
	set := NewExclusionSet([]string{" User1 ", "ALICE@EXAMPLE.COM"})

	assert.True(t, set.Contains("user1"))
	assert.True(t, set.Contains("alice@example.com "))
	assert.False(t, set.Contains("user2"))
}

func TestMeetingColumns(t *testing.T) {
	row := Row{
		"user_id":                  "1",
		"[02.09.2025] Kickoff":     "1",
		"[09.09.2025] Retro call":  "0",
		"[not-a-date] Placeholder": "1",
		"plain column":             "1",
	}

	cols := MeetingColumns(row)
	require.Len(t, cols, 2)

	attended, total := meetingAttendance(row)
	assert.Equal(t, 2, total)
	require.Len(t, attended, 1)
	assert.Equal(t, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), attended[0])
}
