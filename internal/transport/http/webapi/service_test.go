package webapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-arena-go/internal/domain/catalog"
	"voice-arena-go/internal/domain/eventbus"
	"voice-arena-go/internal/domain/history"
	"voice-arena-go/internal/domain/leaderboard"
	"voice-arena-go/internal/domain/providers"
	"voice-arena-go/internal/platform/config"
	"voice-arena-go/internal/platform/storage"
)

const upstreamJSON = `{
	"provider_list": [
		{
			"provider": "doubao",
			"req_params_info": {
				"voice_list": [
					{"voice": "zh_female_1", "name": "湾湾小何", "gender": "Female"}
				]
			}
		}
	]
}`

type testEnv struct {
	engine *gin.Engine
	svc    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamJSON))
	}))
	t.Cleanup(upstream.Close)

	db, err := storage.Open(filepath.Join(t.TempDir(), "webapi.db"))
	require.NoError(t, err)

	histories := history.NewService(storage.NewHistoryRepository(db), nil)
	board, err := leaderboard.NewService(t.Context(), histories, nil)
	require.NoError(t, err)
	t.Cleanup(func() { board.Close() })

	cat := catalog.New(nil)
	cfg := config.DefaultConfig()

	svc := NewService(Deps{
		Config:      cfg,
		Logger:      nil,
		Histories:   histories,
		Leaderboard: board,
		Catalog:     cat,
		Builder:     catalog.NewBuilder(cat, "en", nil),
		Providers:   providers.NewClient(upstream.URL, "key", time.Second, nil),
		Voices:      storage.NewCustomVoiceRepository(db),
	})

	engine := gin.New()
	svc.RegisterRoutes(engine.Group("/api"))

	return &testEnv{engine: engine, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHistoryEndpoints(t *testing.T) {
	env := newTestEnv(t)

	// 新增pk记录
	w := env.do(t, http.MethodPost, "/api/history", gin.H{
		"type": "pk",
		"voices": gin.H{
			"left":  gin.H{"platform": "OpenAI", "voice": "alloy", "text": "hi", "url": "u1"},
			"right": gin.H{"platform": "minimaxi", "voice": "v1", "text": "hi", "url": "u2"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	require.NotEmpty(t, created.ID)

	// 判定胜者
	w = env.do(t, http.MethodPatch, "/api/history/"+created.ID, gin.H{"winner": 0})
	require.Equal(t, http.StatusOK, w.Code)

	// 分页查询
	w = env.do(t, http.MethodGet, "/api/history?page=1&filter=pk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []struct {
			ID     string `json:"id"`
			Winner *int   `json:"winner"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Winner)
	assert.Equal(t, 0, *page.Items[0].Winner)

	// 排行榜反映对战结果
	eventbus.WaitAsync()
	w = env.do(t, http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []struct {
		ModelID       string  `json:"modelId"`
		WinRate       float64 `json:"winRate"`
		PlatformLabel string  `json:"platformLabel"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	require.Len(t, stats, 2)
	assert.Equal(t, "OpenAI-alloy", stats[0].ModelID)
	assert.Equal(t, "OpenAI", stats[0].PlatformLabel)
	assert.Equal(t, "Minimax", stats[1].PlatformLabel)

	// 删除记录
	w = env.do(t, http.MethodDelete, "/api/history/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/history", nil)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Empty(t, page.Items)
}

func TestHistoryCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/history", gin.H{"type": "bogus", "voices": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryDeleteSubItem(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/history", gin.H{
		"type": "generate-single-text-multiple-voices",
		"voices": gin.H{
			"text": "hello",
			"voices": []gin.H{
				{"voice": "a", "url": "u1", "platform": "OpenAI"},
				{"voice": "b", "url": "u2", "platform": "Doubao"},
			},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	path := fmt.Sprintf("/api/history/%s/items/0?type=generate-single-text-multiple-voices", created.ID)
	w = env.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 缺少type参数拒绝
	w = env.do(t, http.MethodDelete, "/api/history/"+created.ID+"/items/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/catalog/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/catalog/label?voice=Doubao:zh_female_1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resolved struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resolved))
	assert.Equal(t, "湾湾小何 (Female)", resolved.Label)

	// 解析失败回退，不报错
	w = env.do(t, http.MethodGet, "/api/catalog/label?voice=Doubao:ghost", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resolved))
	assert.Equal(t, "ghost", resolved.Label)
}

func TestCustomVoiceEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/voices/custom", gin.H{"title": "我的声音"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	// 目录custom分组同步了新音色，可被解析
	w = env.do(t, http.MethodGet, "/api/catalog/label?voice=custom:"+created.ID, nil)
	var resolved struct {
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resolved))
	assert.Equal(t, "我的声音", resolved.Label)

	w = env.do(t, http.MethodPost, "/api/voices/custom", gin.H{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/voices/custom/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSpeechUnconfigured(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/speech/openai", gin.H{"text": "hi", "voice": "alloy"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
