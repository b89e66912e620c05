package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andradm/Journal-project/internal/auth"
	dom "github.com/andradm/Journal-project/internal/domain"
	"github.com/andradm/Journal-project/internal/dto"
	"github.com/andradm/Journal-project/internal/service"
	"github.com/andradm/Journal-project/internal/validate"

	"github.com/gin-gonic/gin"
)

// EntryHandler handles the feed, streams and entry CRUD.
type EntryHandler struct {
	entrySvc *service.EntryService
	userSvc  *service.UserService
}

// NewEntryHandler returns a new EntryHandler.
func NewEntryHandler(entrySvc *service.EntryService, userSvc *service.UserService) *EntryHandler {
	return &EntryHandler{entrySvc: entrySvc, userSvc: userSvc}
}

// Feed godoc
// @Summary      Newest entries across all users
// @Tags         entries
// @Produce      json
// @Success      200  {object}  dto.ListEntriesResponse
// @Failure      500  {object}  map[string]string
// @Router       /entries [get]
func (h *EntryHandler) Feed(c *gin.Context) {
	list, err := h.entrySvc.Feed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load entries"})
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{Items: entriesToResponses(list)})
}

// NewForm godoc
// @Summary      Blank entry form
// @Tags         entries
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.FormResponse
// @Router       /entries/new [get]
func (h *EntryHandler) NewForm(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FormResponse{Values: dto.EntryForm{}})
}

// Create godoc
// @Summary      Create an entry owned by the current user
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.EntryForm  true  "Entry fields"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.FormResponse
// @Failure      500   {object}  map[string]string
// @Router       /entries/new [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req dto.EntryForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, fieldErrs := validate.Entry(entryInput(req))
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.FormResponse{Values: req, Errors: fieldErrs})
		return
	}
	userID := auth.UserIDFromContext(c)
	e, err := h.entrySvc.Create(c.Request.Context(), userID, req.Title, req.TimeSpent, req.Content, req.Resources, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save entry"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Entry saved!", "entry": entryToResponse(e)})
}

// Detail godoc
// @Summary      Single entry
// @Tags         entries
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  dto.EntryResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /entries/{id} [get]
func (h *EntryHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.entrySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load entry"})
		return
	}
	c.JSON(http.StatusOK, entryToResponse(e))
}

// Stream godoc
// @Summary      Current user's stream
// @Tags         entries
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.StreamResponse
// @Failure      500  {object}  map[string]string
// @Router       /stream [get]
func (h *EntryHandler) Stream(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stream"})
		return
	}
	h.respondStream(c, user)
}

// UserStream godoc
// @Summary      Named user's public stream
// @Tags         entries
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  dto.StreamResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /stream/{username} [get]
func (h *EntryHandler) UserStream(c *gin.Context) {
	user, err := h.userSvc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stream"})
		return
	}
	h.respondStream(c, user)
}

// Delete godoc
// @Summary      Delete an entry (owner only)
// @Tags         entries
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /entries/{id}/delete [post]
func (h *EntryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.entrySvc.Delete(c.Request.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can't delete someone else's entry!"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted!"})
}

// EditForm godoc
// @Summary      Entry edit form pre-filled with current values (owner only)
// @Tags         entries
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  dto.FormResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /entries/{id}/edit [get]
func (h *EntryHandler) EditForm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := h.entrySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load entry"})
		return
	}
	if e.UserID != auth.UserIDFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this entry!"})
		return
	}
	c.JSON(http.StatusOK, dto.FormResponse{Values: dto.EntryForm{
		Title:     e.Title,
		TimeSpent: e.TimeSpent,
		Content:   e.Content,
		Resources: e.Resources,
		Date:      e.EntryDate.Format(validate.DateLayout),
	}})
}

// Edit godoc
// @Summary      Overwrite an entry's fields (owner only)
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Entry ID"
// @Param        body  body      dto.EntryForm  true  "Entry fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  dto.FormResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /entries/{id}/edit [post]
func (h *EntryHandler) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EntryForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, fieldErrs := validate.Entry(entryInput(req))
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.FormResponse{Values: req, Errors: fieldErrs})
		return
	}
	userID := auth.UserIDFromContext(c)
	e, err := h.entrySvc.Update(c.Request.Context(), userID, id, req.Title, req.TimeSpent, req.Content, req.Resources, date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this entry!"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update entry"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry updated!", "entry": entryToResponse(e)})
}

func (h *EntryHandler) respondStream(c *gin.Context, user dom.User) {
	list, err := h.entrySvc.Stream(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stream"})
		return
	}
	c.JSON(http.StatusOK, dto.StreamResponse{
		User:  dto.UserResponse{ID: user.ID, Username: user.Username, JoinedAt: user.JoinedAt},
		Items: entriesToResponses(list),
	})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func entryInput(req dto.EntryForm) validate.EntryInput {
	return validate.EntryInput{
		Title:     req.Title,
		TimeSpent: req.TimeSpent,
		Content:   req.Content,
		Resources: req.Resources,
		Date:      req.Date,
	}
}

func entryToResponse(e dom.Entry) dto.EntryResponse {
	return dto.EntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		TimeSpent: e.TimeSpent,
		Content:   e.Content,
		Resources: e.Resources,
		Date:      e.EntryDate.Format(validate.DateLayout),
		CreatedAt: e.CreatedAt,
	}
}

func entriesToResponses(list []dom.Entry) []dto.EntryResponse {
	out := make([]dto.EntryResponse, len(list))
	for i := range list {
		out[i] = entryToResponse(list[i])
	}
	return out
}
