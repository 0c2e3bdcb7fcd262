package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voice-arena-go/internal/domain/catalog"
)

// handleCatalogGet 返回完整的语音目录树
func (s *Service) handleCatalogGet(c *gin.Context) {
	respondOK(c, http.StatusOK, s.catalog.Snapshot())
}

// handleCatalogLabel 解析组合音色ID的展示名。
// 解析不到时按各级回退规则返回，永远不会失败。
func (s *Service) handleCatalogLabel(c *gin.Context) {
	voice := c.Query("voice")
	label := catalog.ResolveLabel(s.catalog.Snapshot(), voice)

	respondOK(c, http.StatusOK, gin.H{
		"voice": voice,
		"label": label,
	})
}

// handleCatalogRefresh 强制重新拉取供应商元数据并重建目录
func (s *Service) handleCatalogRefresh(c *gin.Context) {
	if err := s.RefreshCatalog(c.Request.Context(), true); err != nil {
		s.logger.ErrorTag("目录", "刷新语音目录失败: %v", err)
		respondFail(c, http.StatusBadGateway, "failed to refresh voice catalog")
		return
	}

	respondOK(c, http.StatusOK, s.catalog.Snapshot())
}
