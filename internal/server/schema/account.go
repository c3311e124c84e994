package schema

import "github.com/dmitrijs2005/gophnotes/internal/server/models"

type GetAccountByIDRequest struct {
	ID string `json:"id" validate:"required,id"`
}

type GetAccountByEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateOrGetAccountRequest is sent by the identity provider callback.
type CreateOrGetAccountRequest struct {
	Email             string  `json:"email" validate:"required,email"`
	Name              string  `json:"name" validate:"required,notblank"`
	Provider          string  `json:"provider" validate:"required,notblank"`
	ProviderAccountID string  `json:"providerAccountId" validate:"required,notblank"`
	Thumbnail         *string `json:"thumbnail"`
}

type UpdateAccountRequest struct {
	ID        string           `json:"id" validate:"required,id"`
	FirstName *string          `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName  *string          `json:"lastName" validate:"omitnil,min=1,max=100"`
	Thumbnail Nullable[string] `json:"thumbnail"`
}

func (r *UpdateAccountRequest) Patch() models.AccountPatch {
	p := models.AccountPatch{FirstName: r.FirstName, LastName: r.LastName}
	if v, ok := r.Thumbnail.Get(); ok {
		p.Thumbnail = &v
	} else if r.Thumbnail.IsNull() {
		p.ClearThumbnail = true
	}
	return p
}

// RequestThumbnailUploadRequest carries no parameters; the acting account is
// taken from the session.
type RequestThumbnailUploadRequest struct{}
