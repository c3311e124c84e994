package models

// ThumbnailUpload tells the client where to PUT a new account thumbnail and
// the URL to store on the account afterwards.
type ThumbnailUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}
