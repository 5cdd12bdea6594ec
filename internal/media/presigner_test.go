package media

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPresigner(t *testing.T, endpoint string) *presigner {
	t.Helper()
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	p, ok := NewFromConfig(cfg, "league-pictures", endpoint).(*presigner)
	require.True(t, ok)
	p.newID = func() string { return "0000-id" }
	p.now = func() time.Time { return time.Date(2025, 5, 18, 9, 0, 0, 0, time.UTC) }
	return p
}

func TestObjectKey(t *testing.T) {
	p := testPresigner(t, "")

	tests := []struct {
		name, user, file, want string
	}{
		{"simple", "42", "me.png", "users/42/profile-pictures/0000-id-me.png"},
		{"spaces and case", "42", "My Holiday Photo.JPG", "users/42/profile-pictures/0000-id-my-holiday-photo.jpg"},
		{"path traversal", "../x", "../../etc/passwd", "users/x/profile-pictures/0000-id-etc-passwd"},
		{"only extension", "7", ".png", "users/7/profile-pictures/0000-id-upload.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.objectKey(tt.user, tt.file))
		})
	}
}

func TestPresignProfilePicture(t *testing.T) {
	p := testPresigner(t, "")

	up, err := p.PresignProfilePicture(context.Background(), "42", "me.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "users/42/profile-pictures/0000-id-me.png", up.Key)
	assert.Equal(t, time.Date(2025, 5, 18, 9, 15, 0, 0, time.UTC), up.ExpiresAt)

	u, err := url.Parse(up.URL)
	require.NoError(t, err)
	assert.Equal(t, "league-pictures.s3.us-east-1.amazonaws.com", u.Host)
	assert.Equal(t, "/"+up.Key, u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestPresignCustomEndpoint(t *testing.T) {
	p := testPresigner(t, "http://localhost:9000")

	up, err := p.PresignProfilePicture(context.Background(), "42", "me.png", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(up.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/league-pictures/"+up.Key, u.Path)
}

func TestPresignMissingParameters(t *testing.T) {
	p := testPresigner(t, "")

	_, err := p.PresignProfilePicture(context.Background(), "42", "", "image/png")
	assert.ErrorIs(t, err, ErrMissingParameter)
}
