package types

import (
	"github.com/feralaibot/Feral-Ai-website/src/evolution"
)

// EvolvePreviewReq 进化预览请求, 字段与前端 EvolutionInputs 一致
type EvolvePreviewReq struct {
	evolution.Inputs
}

type EvolvePreviewResp struct {
	Result *evolution.Preview `json:"result"`
}
