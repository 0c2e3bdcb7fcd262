package webapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type speechRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// handleSpeechOpenAI OpenAI语音合成直通，直接返回音频流
func (s *Service) handleSpeechOpenAI(c *gin.Context) {
	if s.speech == nil {
		respondFail(c, http.StatusServiceUnavailable, "OpenAI synthesis is not configured")
		return
	}

	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" || req.Voice == "" {
		respondFail(c, http.StatusBadRequest, "text and voice are required")
		return
	}

	audio, err := s.speech.Synthesize(c.Request.Context(), req.Text, req.Voice, req.Speed)
	if err != nil {
		s.logger.ErrorTag("供应商", "OpenAI合成失败: %v", err)
		respondFail(c, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
