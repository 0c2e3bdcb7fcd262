package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voice-arena-go/internal/domain/catalog"
	"voice-arena-go/internal/domain/leaderboard"
)

// leaderboardEntry 在聚合统计之上附加平台展示名
type leaderboardEntry struct {
	leaderboard.ModelStats
	PlatformLabel string `json:"platformLabel"`
}

// handleLeaderboardGet 返回当前排行榜快照
func (s *Service) handleLeaderboardGet(c *gin.Context) {
	stats := s.leaderboard.Stats()

	entries := make([]leaderboardEntry, 0, len(stats))
	for _, st := range stats {
		entries = append(entries, leaderboardEntry{
			ModelStats:    st,
			PlatformLabel: catalog.DisplayPlatform(st.Platform),
		})
	}

	respondOK(c, http.StatusOK, entries)
}
