package webapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voice-arena-go/internal/domain/history"
)

type createHistoryRequest struct {
	Type   string          `json:"type"`
	Voices json.RawMessage `json:"voices"`
}

type updateHistoryRequest struct {
	Winner *int `json:"winner"`
}

// handleHistoryCreate 新增一条历史记录
func (s *Service) handleHistoryCreate(c *gin.Context) {
	var req createHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	recordType := history.RecordType(req.Type)
	if !recordType.Valid() {
		respondFail(c, http.StatusBadRequest, "unknown record type: "+req.Type)
		return
	}

	payload, err := history.UnmarshalPayload(recordType, req.Voices)
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid record payload")
		return
	}

	id, err := s.histories.Add(c.Request.Context(), recordType, payload)
	if err != nil {
		s.logger.ErrorTag("历史", "新增记录失败: %v", err)
		respondFail(c, http.StatusInternalServerError, "failed to save record")
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"id": id})
}

// handleHistoryList 分页查询历史记录
func (s *Service) handleHistoryList(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(s.cfg.Arena.PageSize)))
	if err != nil || pageSize < 1 {
		pageSize = s.cfg.Arena.PageSize
	}

	var filter history.Filter
	switch c.DefaultQuery("filter", "all") {
	case "pk":
		filter = history.FilterPK
	case "generation":
		filter = history.FilterGeneration
	default:
		filter = history.FilterAll
	}

	result, err := s.histories.ListPage(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		s.logger.ErrorTag("历史", "查询记录失败: %v", err)
		respondFail(c, http.StatusInternalServerError, "failed to list records")
		return
	}

	respondOK(c, http.StatusOK, result)
}

// handleHistoryUpdate 局部更新记录，目前只支持winner字段
func (s *Service) handleHistoryUpdate(c *gin.Context) {
	id := c.Param("id")

	var req updateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// 失败只记录日志，界面侧按"无变化"处理
	if err := s.histories.Update(c.Request.Context(), id, history.UpdateFields{Winner: req.Winner}); err != nil {
		s.logger.ErrorTag("历史", "更新记录 %s 失败: %v", id, err)
	}

	respondOK(c, http.StatusOK, nil)
}

// handleHistoryDelete 删除整条记录
func (s *Service) handleHistoryDelete(c *gin.Context) {
	id := c.Param("id")

	if err := s.histories.Delete(c.Request.Context(), id); err != nil {
		s.logger.ErrorTag("历史", "删除记录 %s 失败: %v", id, err)
	}

	respondOK(c, http.StatusOK, nil)
}

// handleHistoryDeleteSubItem 删除多项记录中的一个子项。
// 删除最后一个子项时整条记录一并删除。
func (s *Service) handleHistoryDeleteSubItem(c *gin.Context) {
	id := c.Param("id")

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondFail(c, http.StatusBadRequest, "invalid item index")
		return
	}

	recordType := history.RecordType(c.Query("type"))
	if !recordType.Valid() {
		respondFail(c, http.StatusBadRequest, "unknown record type")
		return
	}

	if err := s.histories.DeleteSubItem(c.Request.Context(), id, index, recordType); err != nil {
		s.logger.ErrorTag("历史", "删除记录 %s 子项 %d 失败: %v", id, index, err)
	}

	respondOK(c, http.StatusOK, nil)
}
