package models

// UploadedFile describes a file carried by one request. It is ephemeral:
// only the attachment summary survives on the message entity.
type UploadedFile struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// IsImage reports whether the file should be inlined as binary content
// instead of being routed through text extraction.
func (f *UploadedFile) IsImage() bool {
	if f == nil {
		return false
	}
	return len(f.MimeType) > 6 && f.MimeType[:6] == "image/"
}
