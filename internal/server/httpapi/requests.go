package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/schema"
)

// maxBodyBytes caps request bodies read by bindJSON.
const maxBodyBytes = 1 << 20

// bindJSON decodes the request body into dst. Validation is left to the
// handlers.
func bindJSON(c *gin.Context, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return schema.Unmarshal(body, dst)
}

func queryPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, schema.Invalid(key, "must be a boolean")
	}
	return &b, nil
}

func queryStatus(c *gin.Context) *models.NoteStatus {
	v, ok := c.GetQuery("status")
	if !ok || v == "" {
		return nil
	}
	st := models.NoteStatus(v)
	return &st
}

// noteListQuery reads the filters shared by both note listings.
func noteListQuery(c *gin.Context) (status *models.NoteStatus, templateID, q *string, page *int, err error) {
	page, err = schema.ParsePage(c.Query("page"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return queryStatus(c), queryPtr(c, "templateId"), queryPtr(c, "q"), page, nil
}
