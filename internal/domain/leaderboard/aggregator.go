package leaderboard

import (
	"sort"

	"voice-arena-go/internal/domain/history"
)

// ModelStats 单个模型（平台×音色）的对战统计，聚合时派生，不落库
type ModelStats struct {
	ModelID    string  `json:"modelId"`
	Platform   string  `json:"platform"`
	Voice      string  `json:"voice"`
	WinRate    float64 `json:"winRate"`
	TotalScore int     `json:"totalScore"`
	PKCount    int     `json:"pkCount"`
}

// Aggregate 从pk记录集计算排行榜。模型标识为"平台-音色"的
// 字符串拼接（平台大小写不做归一）。每次出场pkCount加1，
// winner指向的一侧totalScore加1，平局双方都不得分。
// 结果按winRate降序稳定排序，并列保持首次出现的顺序。
func Aggregate(records []*history.Record) []ModelStats {
	statsMap := make(map[string]*ModelStats)
	var order []string

	touch := func(platform, voice string) *ModelStats {
		modelID := platform + "-" + voice
		stats, ok := statsMap[modelID]
		if !ok {
			stats = &ModelStats{
				ModelID:  modelID,
				Platform: platform,
				Voice:    voice,
			}
			statsMap[modelID] = stats
			order = append(order, modelID)
		}
		return stats
	}

	for _, record := range records {
		if record == nil || record.Type != history.TypePK {
			continue
		}
		payload, ok := record.Payload.(history.PKPayload)
		if !ok {
			continue
		}

		left := touch(payload.Left.Platform, payload.Left.Voice)
		right := touch(payload.Right.Platform, payload.Right.Voice)

		left.PKCount++
		right.PKCount++

		if record.Winner != nil {
			switch *record.Winner {
			case 0:
				left.TotalScore++
			case 1:
				right.TotalScore++
			}
		}
	}

	result := make([]ModelStats, 0, len(order))
	for _, modelID := range order {
		stats := statsMap[modelID]
		if stats.PKCount > 0 {
			stats.WinRate = float64(stats.TotalScore) / float64(stats.PKCount) * 100
		}
		result = append(result, *stats)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].WinRate > result[j].WinRate
	})

	return result
}
