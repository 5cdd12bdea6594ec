package media

import (
	"context"
	"time"
)

// Uploader hands out short-lived upload URLs for profile pictures.
type Uploader interface {
	PresignProfilePicture(ctx context.Context, userID, fileName, contentType string) (*Upload, error)
}

// Upload describes a presigned PUT request the client performs itself.
type Upload struct {
	URL       string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}
