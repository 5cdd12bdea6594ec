package media

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadExpiry is how long a presigned upload URL stays valid.
const UploadExpiry = 15 * time.Minute

var ErrMissingParameter = errors.New("missing upload parameter")

type presigner struct {
	client *s3.PresignClient
	bucket string
	newID  func() string
	now    func() time.Time
}
