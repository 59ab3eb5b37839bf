package model

import "io"

// UploadKind selects the storage folder and the accepted content category.
type UploadKind string

const (
	UploadVideo      UploadKind = "video"
	UploadRawFootage UploadKind = "raw-footage"
)

// UploadFile is a blob handed to the facade. Size is the declared length of Content.
type UploadFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// UploadResult is the stored reference of an uploaded file.
type UploadResult struct {
	URL string `json:"url"`
}
