package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 上传 CSV 相关常量
const (
	MaxUploadSize = 20 << 20
	MimeCSV       = "text/csv"
)

var AllowedDatasetExtensions = []string{".csv"}
