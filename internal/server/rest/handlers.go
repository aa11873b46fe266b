package rest

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// fileResponse is the public shape of a file record. ParentID is the number
// 0 for the root and the folder id otherwise.
type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID any    `json:"parentId"`
}

func newFileResponse(f *models.File) fileResponse {
	var parent any = 0
	if !f.Parent.IsRoot() {
		parent = f.Parent.FolderID()
	}
	return fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     string(f.Kind),
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createFileRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ParentID parentID `json:"parentId"`
	IsPublic bool     `json:"isPublic"`
	Data     string   `json:"data"`
}

// parentID accepts both the number 0 and a string id. Any other JSON value
// is kept as its raw text, which never names a folder, so the request fails
// the parent lookup instead of aborting the decode of the fields after it.
type parentID string

func (p *parentID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = parentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*p = parentID(n.String())
		return nil
	}
	*p = parentID(b)
	return nil
}

func token(r *http.Request) string {
	return r.Header.Get(common.TokenHeaderName)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.stats.Status(r.Context()))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func (s *Server) postUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	// A missing or malformed body is reported through the field checks.
	_ = render.DecodeJSON(r.Body, &req)

	u, err := s.auth.Register(r.Context(), services.RegisterRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, userResponse{ID: u.ID, Email: u.Email})
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.CurrentUser(r.Context(), token(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, userResponse{ID: u.ID, Email: u.Email})
}

func (s *Server) getConnect(w http.ResponseWriter, r *http.Request) {
	t, err := s.auth.Login(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, tokenResponse{Token: t})
}

func (s *Server) getDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), token(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postFile(w http.ResponseWriter, r *http.Request) {
	var req createFileRequest
	// As in postUser, a malformed body surfaces through the field checks.
	_ = render.DecodeJSON(r.Body, &req)

	f, err := s.files.Create(r.Context(), token(r), services.CreateFileRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newFileResponse(f))
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.files.Get(r.Context(), token(r), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, newFileResponse(f))
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.files.List(r.Context(), token(r), q.Get("parentId"), services.ParsePage(q.Get("page")))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]fileResponse, 0, len(list))
	for _, f := range list {
		out = append(out, newFileResponse(f))
	}
	render.JSON(w, r, out)
}

func (s *Server) putPublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

func (s *Server) putUnpublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	f, err := s.files.SetVisibility(r.Context(), token(r), chi.URLParam(r, "id"), isPublic)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, newFileResponse(f))
}

func (s *Server) getFileData(w http.ResponseWriter, r *http.Request) {
	c, err := s.files.ReadContent(r.Context(), token(r), chi.URLParam(r, "id"), r.URL.Query().Get("size"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", c.MimeType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(c.Data); err != nil {
		s.logger.Warn(r.Context(), "failed to write content", "error", err)
	}
}
