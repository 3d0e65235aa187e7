package util

import "errors"

var (
	ErrUnsupportedDatasetKind = errors.New("unsupported dataset kind")
	ErrEmptyDataset           = errors.New("dataset has no header row")
	ErrFileTooLarge           = errors.New("file exceeds upload size limit")
	ErrInvalidFileType        = errors.New("only csv files are accepted")
)
