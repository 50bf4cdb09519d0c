package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvcraft/internal/layout"
	"cvcraft/internal/theme"
)

// CatalogHandler 暴露只读的主题与布局目录。
type CatalogHandler struct{}

// NewCatalogHandler 构造 CatalogHandler。
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListThemes 按注册顺序返回全部主题，第一个为默认主题。
func (h *CatalogHandler) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default_id": theme.DefaultID,
		"themes":     theme.All(),
	})
}

// GetTheme 返回指定主题；未知 id 回退到默认主题，并通过 fallback 字段告知调用方。
func (h *CatalogHandler) GetTheme(c *gin.Context) {
	id := c.Param("id")
	_, found := theme.Lookup(id)
	c.JSON(http.StatusOK, gin.H{
		"requested_id": id,
		"fallback":     !found,
		"theme":        theme.ByID(id),
	})
}

// ListLayouts 按注册顺序返回全部布局。
func (h *CatalogHandler) ListLayouts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default_id": layout.DefaultID,
		"layouts":    layout.All(),
	})
}

// GetLayout 返回指定布局，规则同 GetTheme。
func (h *CatalogHandler) GetLayout(c *gin.Context) {
	id := c.Param("id")
	_, found := layout.Lookup(id)
	c.JSON(http.StatusOK, gin.H{
		"requested_id": id,
		"fallback":     !found,
		"layout":       layout.ByID(id),
	})
}
