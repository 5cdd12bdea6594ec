package media

import (
	"context"
	"sync"
	"time"
)

// Mock is a mock implementation of Uploader for testing.
type Mock struct {
	mu sync.Mutex

	PresignFunc func(userID, fileName, contentType string) (*Upload, error)

	PresignCalls []PresignCall
}

// PresignCall holds the arguments for a call to PresignProfilePicture.
type PresignCall struct {
	UserID, FileName, ContentType string
}

var _ Uploader = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) PresignProfilePicture(ctx context.Context, userID, fileName, contentType string) (*Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PresignCalls = append(m.PresignCalls, PresignCall{UserID: userID, FileName: fileName, ContentType: contentType})
	if m.PresignFunc != nil {
		return m.PresignFunc(userID, fileName, contentType)
	}
	return &Upload{
		URL:       "https://example.invalid/" + fileName,
		Key:       "users/" + userID + "/profile-pictures/" + fileName,
		ExpiresAt: time.Now().Add(UploadExpiry),
	}, nil
}
