package model

// DatasetKind 上传数据表的种类
type DatasetKind string

const (
	DatasetGrades      DatasetKind = "grades"
	DatasetStudents    DatasetKind = "students"
	DatasetSubmissions DatasetKind = "submissions"
	DatasetMeetings    DatasetKind = "meetings"
	DatasetStructure   DatasetKind = "structure"
)

// ValidDatasetKind 校验上传时指定的表种类
func ValidDatasetKind(kind string) bool {
	switch DatasetKind(kind) {
	case DatasetGrades, DatasetStudents, DatasetSubmissions, DatasetMeetings, DatasetStructure:
		return true
	}
	return false
}

// Dataset 一份已解析入库的 CSV 数据表
type Dataset struct {
	UUIDBase
	Kind        DatasetKind `gorm:"size:20;index" json:"kind"`
	Filename    string      `gorm:"size:255" json:"filename"`
	StoragePath string      `gorm:"size:512" json:"-"` // 原始文件在对象存储中的位置
	Columns     string      `gorm:"type:text" json:"-"` // 解析出的列名，JSON 数组
	RowCount    int         `json:"rowCount"`
}

func (Dataset) TableName() string {
	return "datasets"
}

// DatasetRow 数据表中的一行，原始键值对按 JSON 存储
type DatasetRow struct {
	BaseModel
	DatasetID string `gorm:"type:varchar(36);index" json:"datasetId"`
	Data      string `gorm:"type:json" json:"data"`
}

func (DatasetRow) TableName() string {
	return "dataset_rows"
}
