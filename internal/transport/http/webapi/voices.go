package webapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voice-arena-go/internal/platform/storage"
)

type createCustomVoiceRequest struct {
	Title      string `json:"title"`
	Visibility string `json:"visibility"`
}

// handleCustomVoiceCreate 登记一个克隆音色并挂入目录custom分组
func (s *Service) handleCustomVoiceCreate(c *gin.Context) {
	var req createCustomVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondFail(c, http.StatusBadRequest, "voice title is required")
		return
	}
	if req.Visibility == "" {
		req.Visibility = "private"
	}

	voice := &storage.CustomVoice{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Type:       "custom",
		Visibility: req.Visibility,
		CreatedAt:  time.Now().UnixMilli(),
	}

	if err := s.voices.Save(c.Request.Context(), voice); err != nil {
		s.logger.ErrorTag("目录", "保存克隆音色失败: %v", err)
		respondFail(c, http.StatusInternalServerError, "failed to save custom voice")
		return
	}

	if err := s.catalog.RefreshCustomVoices(c.Request.Context(), s.voices); err != nil {
		s.logger.WarnTag("目录", "刷新自定义音色分组失败: %v", err)
	}

	respondOK(c, http.StatusCreated, gin.H{"id": voice.ID, "title": voice.Title})
}

// handleCustomVoiceList 列出全部克隆音色
func (s *Service) handleCustomVoiceList(c *gin.Context) {
	voices, err := s.voices.All(c.Request.Context())
	if err != nil {
		s.logger.ErrorTag("目录", "查询克隆音色失败: %v", err)
		respondFail(c, http.StatusInternalServerError, "failed to list custom voices")
		return
	}

	respondOK(c, http.StatusOK, voices)
}

// handleCustomVoiceDelete 删除克隆音色并同步目录
func (s *Service) handleCustomVoiceDelete(c *gin.Context) {
	id := c.Param("id")

	if err := s.voices.Delete(c.Request.Context(), id); err != nil {
		s.logger.ErrorTag("目录", "删除克隆音色 %s 失败: %v", id, err)
		respondFail(c, http.StatusInternalServerError, "failed to delete custom voice")
		return
	}

	if err := s.catalog.RefreshCustomVoices(c.Request.Context(), s.voices); err != nil {
		s.logger.WarnTag("目录", "刷新自定义音色分组失败: %v", err)
	}

	respondOK(c, http.StatusOK, nil)
}
