package analytics

import (
	"strconv"
	"strings"
	"time"
)

// Row 一行已解析的表格数据，键为原始列名，值为未定型的字符串
type Row map[string]string

// NormalizeID 学员标识归一化：去空白并转小写，用于匹配和排除
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Field 按别名表取字段原始值，找不到时返回空串
func (r Row) Field(aliases []string) string {
	key, ok := ResolveColumn(r, aliases)
	if !ok {
		return ""
	}
	return strings.TrimSpace(r[key])
}

// Float 按别名表取数值字段，无法解析时返回 0
func (r Row) Float(aliases []string) float64 {
	raw := r.Field(aliases)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// Int 按别名表取整数字段，无法解析时返回 0
func (r Row) Int(aliases []string) int64 {
	raw := r.Field(aliases)
	if raw == "" {
		return 0
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f)
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

const msEpochThreshold = 10_000_000_000

// ParseTimestamp 解析提交时间戳。支持常见日期格式以及 Unix 秒/毫秒，
// 数值大于 1e10 时按毫秒处理。解析失败返回 ok=false，调用方跳过该行。
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if epoch, err := strconv.ParseFloat(raw, 64); err == nil {
		if epoch <= 0 {
			return time.Time{}, false
		}
		if epoch > msEpochThreshold {
			epoch = epoch / 1000
		}
		return time.Unix(int64(epoch), 0).UTC(), true
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Truthy 判断出席/布尔标记列的取值是否为真
func Truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "n", "-", "absent":
		return false
	default:
		return true
	}
}

// IsCorrect 判断提交状态是否为正确
func IsCorrect(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "correct", "true", "1", "passed", "solved", "ok":
		return true
	default:
		return false
	}
}

// ExclusionSet 归一化后的排除学员集合
type ExclusionSet map[string]struct{}

// NewExclusionSet 构建排除集合，成员按 NormalizeID 归一化
func NewExclusionSet(ids []string) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		norm := NormalizeID(id)
		if norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}

// Contains 判断学员是否被排除，参数可为原始大小写
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[NormalizeID(id)]
	return ok
}
