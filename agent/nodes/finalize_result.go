package orchestratornode

import (
	"fmt"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
)

func FinalizeResult(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Result.Tool == "" {
		in.Result.Tool = in.Call.Tool
	}
	return in.Result, nil
}
