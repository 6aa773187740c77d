package orchestratornode

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	"github.com/rs/zerolog/log"
)

func DispatchTool(
	ctx context.Context,
	in *GraphState,
	tools contractx.ToolGateway,
	nowFn func() time.Time,
) (*GraphState, error) {
	if in == nil || in.Agent == "" {
		return nil, fmt.Errorf("%w: no agent resolved for tool call", contractx.ErrValidation)
	}

	started := nowFn()
	res, err := tools.Execute(ctx, in.Agent, contractx.ToolRequest{
		Tool: in.Call.Tool,
		Args: in.Call.Args,
	})
	if err != nil {
		return nil, err
	}
	in.Duration = nowFn().Sub(started)
	in.Result = res

	if res.Failed() {
		log.Debug().
			Str("agent", string(in.Agent)).
			Str("tool", res.Tool).
			Str("kind", res.ErrorKind).
			Str("conversation_id", in.Call.ConversationID).
			Msg(res.Error)
	}
	return in, nil
}
