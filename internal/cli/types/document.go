package types

import "io"

// DocumentStatus is the backend-owned processing state of a document
type DocumentStatus string

const (
	DocumentUploaded    DocumentStatus = "uploaded"
	DocumentParsing     DocumentStatus = "parsing"
	DocumentVectorizing DocumentStatus = "vectorizing"
	DocumentIndexing    DocumentStatus = "indexing"
	DocumentCompleted   DocumentStatus = "completed"
	DocumentFailed      DocumentStatus = "failed"
)

// Document represents an uploaded document
type Document struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	KnowledgeBaseID string         `json:"knowledge_base_id"`
	FilePath        string         `json:"file_path"`
	FileSize        int64          `json:"file_size"`
	DocType         string         `json:"doc_type"`
	MimeType        string         `json:"mime_type,omitempty"`
	Status          DocumentStatus `json:"status"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	CreatedAt       Time           `json:"created_at"`
	UpdatedAt       Time           `json:"updated_at"`
	ProcessedAt     *Time          `json:"processed_at,omitempty"`
}

// CanProcess reports whether processing may be started for this document
func (d Document) CanProcess() bool {
	return d.Status == DocumentUploaded
}

// IsProcessing reports whether the backend pipeline is running
func (d Document) IsProcessing() bool {
	switch d.Status {
	case DocumentParsing, DocumentVectorizing, DocumentIndexing:
		return true
	}
	return false
}

// IsTerminal reports whether the document will not change status on its own
func (d Document) IsTerminal() bool {
	return d.Status == DocumentCompleted || d.Status == DocumentFailed
}

// UploadRequest describes a multipart document upload
type UploadRequest struct {
	Filename    string
	Reader      io.Reader
	Title       string
	Description string
}
