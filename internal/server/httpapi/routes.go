package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/schema"
	"github.com/dmitrijs2005/gophnotes/internal/server/session"
)

type loginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

// login is the identity provider callback: it creates or fetches the
// account and opens a session for it.
func (s *Server) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req schema.CreateOrGetAccountRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	acc, err := s.commands.CreateOrGetAccount(ctx, &req)
	if err != nil {
		s.metrics.TrackAuthAttempt("failure", "login")
		writeError(c, err)
		return
	}

	token, err := s.auth.Issue(ctx, acc.ID)
	if err != nil {
		s.metrics.TrackAuthAttempt("failure", "login")
		writeError(c, err)
		return
	}

	s.metrics.TrackAuthAttempt("success", "login")
	c.JSON(http.StatusOK, loginResponse{Token: token, Account: acc})
}

func (s *Server) logout(c *gin.Context) {
	token, ok := session.TokenFromContext(c.Request.Context())
	if !ok {
		writeError(c, common.NewUnauthenticated())
		return
	}

	if err := s.auth.Revoke(c.Request.Context(), token); err != nil {
		s.metrics.TrackAuthAttempt("failure", "logout")
		if errors.Is(err, common.ErrInvalidToken) {
			err = common.NewUnauthenticated()
		}
		writeError(c, err)
		return
	}

	s.metrics.TrackAuthAttempt("success", "logout")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- accounts ---

func (s *Server) getCurrentAccount(c *gin.Context) {
	acc, err := s.queries.GetCurrentAccount(c.Request.Context())
	respond(c, acc, err)
}

func (s *Server) getAccountByID(c *gin.Context) {
	acc, err := s.queries.GetAccountByID(c.Request.Context(), &schema.GetAccountByIDRequest{ID: c.Param("id")})
	respond(c, acc, err)
}

func (s *Server) getAccountByEmail(c *gin.Context) {
	acc, err := s.queries.GetAccountByEmail(c.Request.Context(), &schema.GetAccountByEmailRequest{Email: c.Query("email")})
	respond(c, acc, err)
}

func (s *Server) updateAccount(c *gin.Context) {
	var req schema.UpdateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	req.ID = c.Param("id")

	acc, err := s.commands.UpdateAccount(c.Request.Context(), &req)
	respond(c, acc, err)
}

func (s *Server) requestThumbnailUpload(c *gin.Context) {
	up, err := s.commands.RequestThumbnailUpload(c.Request.Context(), &schema.RequestThumbnailUploadRequest{})
	respond(c, up, err)
}

// --- templates ---

func (s *Server) getTemplateByID(c *gin.Context) {
	t, err := s.queries.GetTemplateByID(c.Request.Context(), &schema.GetTemplateByIDRequest{ID: c.Param("id")})
	respond(c, t, err)
}

func (s *Server) listTemplates(c *gin.Context) {
	only, err := queryBool(c, "onlyMyTemplates")
	if err != nil {
		writeError(c, err)
		return
	}

	list, err := s.queries.ListTemplates(c.Request.Context(), &schema.ListTemplatesRequest{
		OwnerID:         queryPtr(c, "ownerId"),
		Q:               queryPtr(c, "q"),
		OnlyMyTemplates: only,
	})
	respond(c, list, err)
}

func (s *Server) listMyTemplates(c *gin.Context) {
	list, err := s.queries.ListMyTemplates(c.Request.Context(), &schema.ListMyTemplatesRequest{Q: queryPtr(c, "q")})
	respond(c, list, err)
}

func (s *Server) createTemplate(c *gin.Context) {
	var req schema.CreateTemplateRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	t, err := s.commands.CreateTemplate(c.Request.Context(), &req)
	respond(c, t, err)
}

func (s *Server) updateTemplate(c *gin.Context) {
	var req schema.UpdateTemplateRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	req.ID = c.Param("id")

	t, err := s.commands.UpdateTemplate(c.Request.Context(), &req)
	respond(c, t, err)
}

func (s *Server) deleteTemplate(c *gin.Context) {
	res, err := s.commands.DeleteTemplate(c.Request.Context(), &schema.DeleteTemplateRequest{ID: c.Param("id")})
	respond(c, res, err)
}

// --- notes ---

func (s *Server) getNoteByID(c *gin.Context) {
	n, err := s.queries.GetNoteByID(c.Request.Context(), &schema.GetNoteByIDRequest{ID: c.Param("id")})
	respond(c, n, err)
}

func (s *Server) listNotes(c *gin.Context) {
	status, templateID, q, page, err := noteListQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	list, err := s.queries.ListNotes(c.Request.Context(), &schema.ListNotesRequest{
		Status:     status,
		TemplateID: templateID,
		Q:          q,
		Page:       page,
		OwnerID:    queryPtr(c, "ownerId"),
	})
	respond(c, list, err)
}

func (s *Server) listMyNotes(c *gin.Context) {
	status, templateID, q, page, err := noteListQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	list, err := s.queries.ListMyNotes(c.Request.Context(), &schema.ListMyNotesRequest{
		Status:     status,
		TemplateID: templateID,
		Q:          q,
		Page:       page,
	})
	respond(c, list, err)
}

func (s *Server) createNote(c *gin.Context) {
	var req schema.CreateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	n, err := s.commands.CreateNote(c.Request.Context(), &req)
	respond(c, n, err)
}

func (s *Server) updateNote(c *gin.Context) {
	var req schema.UpdateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	req.ID = c.Param("id")

	n, err := s.commands.UpdateNote(c.Request.Context(), &req)
	respond(c, n, err)
}

func (s *Server) publishNote(c *gin.Context) {
	n, err := s.commands.PublishNote(c.Request.Context(), &schema.PublishNoteRequest{ID: c.Param("id")})
	respond(c, n, err)
}

func (s *Server) unpublishNote(c *gin.Context) {
	n, err := s.commands.UnpublishNote(c.Request.Context(), &schema.UnpublishNoteRequest{ID: c.Param("id")})
	respond(c, n, err)
}

func (s *Server) deleteNote(c *gin.Context) {
	res, err := s.commands.DeleteNote(c.Request.Context(), &schema.DeleteNoteRequest{ID: c.Param("id")})
	respond(c, res, err)
}
