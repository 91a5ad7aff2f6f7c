package model

import "strings"

// FileType is the classification tag assigned to an attachment at upload
// time, derived from its filename extension.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeWord  FileType = "word"
	FileTypeOther FileType = "other"
)

// ClassifyFile derives the type tag from the filename extension,
// case-insensitive.
func ClassifyFile(name string) FileType {
	low := strings.ToLower(name)
	switch {
	case strings.HasSuffix(low, ".jpg"),
		strings.HasSuffix(low, ".jpeg"),
		strings.HasSuffix(low, ".png"):
		return FileTypeImage
	case strings.HasSuffix(low, ".doc"),
		strings.HasSuffix(low, ".docx"):
		return FileTypeWord
	default:
		return FileTypeOther
	}
}

// Submission carries the text fields of an incoming questionnaire. All
// fields are optional free text, stored as-is.
type Submission struct {
	Q1        string
	Q2        string
	Q3        string
	Name      string
	StudentID string
}

// SurveyRecord is one submitted questionnaire. Records are immutable once
// written; they only ever disappear through a bulk delete together with
// their files.
type SurveyRecord struct {
	ID         int           `json:"id"`
	Q1         string        `json:"q1"`
	Q2         string        `json:"q2"`
	Q3         string        `json:"q3"`
	Name       string        `json:"name"`
	StudentID  string        `json:"student_id"`
	SubmitTime string        `json:"submit_time"`
	Files      []FileSummary `json:"files"`
}

// FileSummary is the listing view of an attachment: no blob.
type FileSummary struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Type FileType `json:"type"`
}

// FileUpload is an attachment as received from the form, before it has
// an id.
type FileUpload struct {
	Name string
	Blob []byte
	Type FileType
}

// StoredFile is a single attachment fetched for download.
type StoredFile struct {
	Name string
	Blob []byte
	Type FileType
}

// ExportFile is one row of the bulk-export query: the attachment plus
// the provenance of its owning record.
type ExportFile struct {
	ID         int
	Name       string
	Blob       []byte
	Type       FileType
	SubmitTime string
	RecordID   int
}
