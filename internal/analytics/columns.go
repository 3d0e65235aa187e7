package analytics

import "strings"

// 各语义字段可接受的列名别名表。别名已按 normalizeColumn 规则写好：
// 小写、内部空白折叠为下划线。来源表格的列名大小写和空格风格不统一，
// 解析时逐个别名按归一化后的列名匹配，取第一个命中的列。
var (
	UserIDAliases = []string{"user_id", "userid", "id", "user", "student_id", "learner_id", "email"}
	NameAliases   = []string{"name", "full_name", "fullname", "user_name", "student_name", "student"}
	TotalAliases  = []string{"total", "total_score", "score", "grade", "total_grade", "points"}
	StepIDAliases = []string{"step_id", "stepid", "step", "task_id", "exercise_id", "problem_id"}
	StatusAliases = []string{"status", "submission_status", "result", "verdict", "is_correct", "correct"}
	TimeAliases   = []string{"timestamp", "submission_time", "submitted_at", "time", "datetime", "date", "created_at"}

	ModuleIDAliases       = []string{"module_id", "moduleid", "module", "section_id", "section"}
	ModuleNameAliases     = []string{"module_name", "module_title", "lesson_name", "section_name", "title"}
	ModulePositionAliases = []string{"module_position", "position", "module_order", "order", "index"}
)

// normalizeColumn 列名归一化：去首尾空白、转小写、内部空白折叠为下划线
func normalizeColumn(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "_")
}

// ResolveColumn 在行内查找第一个归一化后与某别名相同的列名。
// 未命中不是错误：可选字段按空值处理，仅标识列缺失时该行被跳过。
func ResolveColumn(row Row, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for key := range row {
			if normalizeColumn(key) == alias {
				return key, true
			}
		}
	}
	return "", false
}
