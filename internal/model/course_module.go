package model

// CourseModule 课程模块目录，供按模块统计时解析显示名称
type CourseModule struct {
	BaseModel
	ModuleID int64  `gorm:"uniqueIndex" json:"moduleId"`
	Title    string `gorm:"size:255" json:"title"`
	Position int    `gorm:"default:0" json:"position"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
