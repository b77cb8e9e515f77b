package handlers

import (
	"net/http"

	"glsalliance/services/content"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves the public site data.
type ContentHandler struct {
	Svc *content.Service
}

func NewContentHandler(svc *content.Service) *ContentHandler {
	return &ContentHandler{Svc: svc}
}

func (h *ContentHandler) ConferencesHandler(c *gin.Context) {
	list, err := h.Svc.Conferences(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conferences": list})
}

func (h *ContentHandler) ConferenceHandler(c *gin.Context) {
	conf, err := h.Svc.ConferenceBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

func (h *ContentHandler) ContactDetailsHandler(c *gin.Context) {
	details, err := h.Svc.ContactDetails(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *ContentHandler) HomeHeroesHandler(c *gin.Context) {
	heroes, err := h.Svc.HomeHeroes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"heroes": heroes})
}

func (h *ContentHandler) TestimonialsHandler(c *gin.Context) {
	list, err := h.Svc.Testimonials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": list})
}
