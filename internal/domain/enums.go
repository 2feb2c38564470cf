package domain

// Content types recognised by the extraction pipeline.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
)

// ContentPartType identifies the kind of a user message segment sent for inference.
type ContentPartType string

const (
	ContentPartText     ContentPartType = "text"
	ContentPartImageURL ContentPartType = "image_url"
)
