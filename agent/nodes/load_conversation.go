package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	statex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/state"
)

// LoadConversation resolves the agent that will serve the call. A call
// bound to a conversation may only target its active agent.
func LoadConversation(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Call.ConversationID == "" {
		in.Agent = in.Call.Agent
		return in, nil
	}

	conv, err := store.Load(ctx, in.Call.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation=%s: %w", in.Call.ConversationID, err)
	}
	if in.Call.Agent != "" && in.Call.Agent != conv.ActiveAgent {
		return nil, fmt.Errorf("%w: conversation=%s is held by %s, not %s",
			contractx.ErrAgentNotActive, conv.ID, conv.ActiveAgent, in.Call.Agent)
	}

	in.Conversation = conv
	in.Agent = conv.ActiveAgent
	return in, nil
}
