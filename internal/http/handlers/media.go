package handlers

import (
	"net/http"

	"github.com/mauv0809/cue-league/internal/media"
)

// PresignedURLHandler returns a presigned S3 URL the client uploads a profile picture to.
func PresignedURLHandler(uploader media.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			http.Error(w, "Uploads are not configured", http.StatusServiceUnavailable)
			return
		}
		q := r.URL.Query()
		upload, err := uploader.PresignProfilePicture(r.Context(), q.Get("userId"), q.Get("fileName"), q.Get("contentType"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, upload)
	}
}
