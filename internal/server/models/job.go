package models

// ThumbnailJob asks the pipeline to render derivatives for an image.
type ThumbnailJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}
