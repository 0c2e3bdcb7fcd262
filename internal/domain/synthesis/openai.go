package synthesis

import (
	"context"
	"io"

	"github.com/sashabaranov/go-openai"

	"voice-arena-go/internal/platform/errors"
	"voice-arena-go/internal/platform/logging"
)

// OpenAISpeech OpenAI语音合成直通。其他供应商的合成由外部
// 生成流程完成，只把结果写回历史记录。
type OpenAISpeech struct {
	client *openai.Client
	model  string
	logger *logging.Logger
}

// NewOpenAISpeech 创建OpenAI合成客户端
func NewOpenAISpeech(apiKey, baseURL, model string, logger *logging.Logger) (*OpenAISpeech, error) {
	if apiKey == "" {
		return nil, errors.New(errors.KindProvider, "synthesis.init", "missing OpenAI API key")
	}
	if model == "" {
		model = string(openai.TTSModel1)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &OpenAISpeech{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
	}, nil
}

// Synthesize 合成一段语音，返回音频字节流。speed为0时使用默认语速。
func (s *OpenAISpeech) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	req := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.model),
		Input: text,
		Voice: openai.SpeechVoice(voice),
	}
	if speed > 0 {
		req.Speed = speed
	}

	resp, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, errors.Wrap(errors.KindProvider, "synthesis.create_speech", "OpenAI合成失败", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, errors.Wrap(errors.KindProvider, "synthesis.read", "读取合成音频失败", err)
	}

	s.logger.InfoTag("供应商", "OpenAI合成完成，音色 %s，%d 字节", voice, len(audio))
	return audio, nil
}
