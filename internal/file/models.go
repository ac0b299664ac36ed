package file

import (
	"time"

	"github.com/google/uuid"
)

// ResponseTimeLayout renders lastModified in list and metadata responses (HH:mm dd-MM-yyyy).
const ResponseTimeLayout = "15:04 02-01-2006"

// Metadata holds the fields shared by every stored document.
type Metadata struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Record is a persisted document. Data is only populated on the download path.
type Record struct {
	ID uuid.UUID
	Metadata
	Description  string
	LastModified time.Time
}

// Response is the read projection used by list, search and metadata calls.
type Response struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
	Description  string `json:"description"`
	LastModified string `json:"lastModified"`
}

// Download bundles raw content with the stored name and label.
type Download struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

func toResponse(rec Record) Response {
	return Response{
		ID:           rec.ID.String(),
		Name:         rec.Name,
		Size:         rec.Size,
		ContentType:  rec.ContentType,
		Description:  rec.Description,
		LastModified: rec.LastModified.Format(ResponseTimeLayout),
	}
}
