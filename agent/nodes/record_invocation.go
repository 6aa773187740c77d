package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	statex "github.com/Hrhcoolshegs/openai-realtime-agents/agent/state"
	"github.com/rs/zerolog/log"
)

// RecordInvocation counts the call against its conversation and appends it
// to the journal. Journal failures are logged and do not fail the call.
func RecordInvocation(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	journal contractx.Journal,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.Conversation != nil {
		in.Conversation.RecordInvocation(in.Now)
		if err := in.Conversation.Validate(); err != nil {
			return nil, fmt.Errorf("conversation validation failed: %w", err)
		}
		if err := store.Save(ctx, in.Conversation); err != nil {
			return nil, err
		}
	}

	inv := contractx.Invocation{
		ConversationID: in.Call.ConversationID,
		Agent:          in.Agent,
		Tool:           in.Call.Tool,
		Args:           in.Call.Args,
		ErrorKind:      in.Result.ErrorKind,
		Error:          in.Result.Error,
		Duration:       in.Duration,
		At:             in.Now,
	}
	if err := journal.Record(ctx, inv); err != nil {
		log.Warn().Err(err).
			Str("agent", string(in.Agent)).
			Str("tool", in.Call.Tool).
			Msg("journal write failed")
	}
	return in, nil
}
