package analytics

import (
	"regexp"
	"time"
)

// 会议出勤表的列名形如 "[02.09.2025] Kickoff call"，方括号内为会议日期
var meetingColumnRe = regexp.MustCompile(`^\s*\[(\d{2}\.\d{2}\.\d{4})\]`)

// MeetingColumn 出勤表中的一个会议列
type MeetingColumn struct {
	Key  string
	Date time.Time
}

// MeetingColumns 返回行内所有可识别的会议列，按列出现无序；
// 日期无法解析的方括号列被忽略
func MeetingColumns(row Row) []MeetingColumn {
	var cols []MeetingColumn
	for key := range row {
		m := meetingColumnRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		date, err := time.Parse("02.01.2006", m[1])
		if err != nil {
			continue
		}
		cols = append(cols, MeetingColumn{Key: key, Date: date.UTC()})
	}
	return cols
}

// meetingAttendance 统计一行出勤记录：出席的会议日期集合和会议列总数
func meetingAttendance(row Row) (attended []time.Time, totalColumns int) {
	cols := MeetingColumns(row)
	for _, col := range cols {
		if Truthy(row[col.Key]) {
			attended = append(attended, col.Date)
		}
	}
	return attended, len(cols)
}
