package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogStore
}

func NewCatalogHandler(catalog *service.CatalogStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countries": h.catalog.List(c.Request.Context())})
}

func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	methods := make([]gin.H, 0)
	for _, m := range models.AllPaymentMethods() {
		p := m.Presentation()
		methods = append(methods, gin.H{"method": m, "label": p.Label, "icon": p.Icon})
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

func (h *CatalogHandler) AddCountry(c *gin.Context) {
	var profile models.CountryProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	added, err := h.catalog.Add(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"country": added})
}

func (h *CatalogHandler) UpdateCountry(c *gin.Context) {
	var profile models.CountryProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	code := c.Param("code")
	if profile.Code != "" && !strings.EqualFold(profile.Code, code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country code cannot be changed"})
		return
	}
	profile.Code = code

	updated, err := h.catalog.Update(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": updated})
}

func (h *CatalogHandler) RemoveCountry(c *gin.Context) {
	h.catalog.Remove(c.Request.Context(), c.Param("code"))
	c.Status(http.StatusNoContent)
}
