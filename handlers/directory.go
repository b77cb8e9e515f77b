package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"glsalliance/services/directory"
	"glsalliance/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxSettleWait bounds how long a "?wait=true" call blocks for its fetch.
const maxSettleWait = 10 * time.Second

// DirectoryHandler serves the public member directories.
type DirectoryHandler struct {
	Svc      *directory.Service
	Registry *directory.Registry
}

func NewDirectoryHandler(svc *directory.Service, registry *directory.Registry) *DirectoryHandler {
	return &DirectoryHandler{Svc: svc, Registry: registry}
}

func kindParam(c *gin.Context) (directory.Kind, bool) {
	kind, ok := directory.KindFromSlug(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown directory"})
	}
	return kind, ok
}

// QueryHandler runs one stateless directory query from the URL parameters.
func (h *DirectoryHandler) QueryHandler(c *gin.Context) {
	logger := getLogger(c)
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	filter := directory.Filter{
		Kind:       kind,
		Country:    c.Query("country"),
		City:       c.Query("city"),
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category_id"),
		Sort:       directory.SortKey(c.Query("sort")),
		Page:       page,
	}

	result, err := h.Svc.Query(c.Request.Context(), filter)
	if err != nil {
		logger.Warn("Directory query failed", zap.String("kind", string(kind)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"message": directory.FailureMessage, "rows": []directory.Row{}})
		return
	}
	c.JSON(http.StatusOK, result)
}

// snapshot answers with the engine state, optionally after it settles.
func (h *DirectoryHandler) snapshot(c *gin.Context, e *directory.Engine) {
	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), maxSettleWait)
		defer cancel()
		if err := e.Wait(ctx); err != nil {
			getLogger(c).Debug("Directory engine still busy", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, e.Snapshot())
}

func (h *DirectoryHandler) engine(c *gin.Context) (*directory.Engine, bool) {
	kind, ok := kindParam(c)
	if !ok {
		return nil, false
	}
	return h.Registry.Engine(sessionID(c), kind), true
}

func (h *DirectoryHandler) SessionHandler(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	h.snapshot(c, e)
}

// ChangeHandler applies filter edits to the visitor's engine.
func (h *DirectoryHandler) ChangeHandler(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	var change directory.Change
	if err := c.ShouldBindJSON(&change); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if change.Sort != nil && !change.Sort.Valid() {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Unknown sort order", string(*change.Sort))
		return
	}
	e.Apply(change)
	h.snapshot(c, e)
}

func (h *DirectoryHandler) NextHandler(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	e.NextPage()
	h.snapshot(c, e)
}

func (h *DirectoryHandler) PrevHandler(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	e.PrevPage()
	h.snapshot(c, e)
}

func (h *DirectoryHandler) ResetHandler(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	e.Reset()
	h.snapshot(c, e)
}

// CategoriesHandler returns the export category sidebar.
func (h *DirectoryHandler) CategoriesHandler(c *gin.Context) {
	tree, err := h.Svc.CategoryTree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

// MemberHandler returns a public member profile.
func (h *DirectoryHandler) MemberHandler(c *gin.Context) {
	member, err := h.Svc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
