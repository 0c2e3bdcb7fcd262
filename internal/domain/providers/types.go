package providers

// Voice 托管接口返回的单个音色记录
type Voice struct {
	Voice   string            `json:"voice"`
	Name    string            `json:"name"`
	Sample  map[string]string `json:"sample"`
	Gender  string            `json:"gender"`
	Emotion []string          `json:"emotion"`
}

// ReqParamsInfo 供应商请求参数描述，目前只消费音色列表
type ReqParamsInfo struct {
	VoiceList []Voice `json:"voice_list"`
}

// Info 单个供应商的元数据
type Info struct {
	Provider      string        `json:"provider"`
	ReqParamsInfo ReqParamsInfo `json:"req_params_info"`
}

// Response 托管接口 /302/tts/provider 的响应结构
type Response struct {
	ProviderList []Info `json:"provider_list"`
}
