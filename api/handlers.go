package api

import (
	"errors"
	"net/http"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	"github.com/Hrhcoolshegs/openai-realtime-agents/agent/mockdata"
	logx "github.com/Hrhcoolshegs/openai-realtime-agents/pkg/logger"
	"github.com/Hrhcoolshegs/openai-realtime-agents/pkg/realtime"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) bootstrapSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Bootstrap(r.Context())
	if err != nil {
		realtime.LogFailure(err)
		var rtErr *realtime.Error
		if !errors.As(err, &rtErr) {
			jsonError(w, "Failed to connect to OpenAI API: "+err.Error(), http.StatusInternalServerError)
			return
		}
		body := errorBody{Error: rtErr.Message}
		if rtErr.Kind == realtime.KindUpstream {
			body.Details = rtErr.Detail
		}
		jsonResponse(w, rtErr.Status, body)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sess.Body)
}

func (s *Server) describeScenario(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.service.Scenario().Describe())
}

func (s *Server) invokeAgentTool(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{}
	if err := decodeBody(r, &args); err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := s.service.InvokeTool(r.Context(), contractx.ToolCall{
		Agent: contractx.AgentName(r.PathValue("agent")),
		Tool:  r.PathValue("tool"),
		Args:  args,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeToolResult(w, res)
}

type startRequest struct {
	Agent contractx.AgentName `json:"agent"`
}

func (s *Server) startConversation(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	conv, err := s.service.Start(r.Context(), req.Agent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	logx.From(logx.WithConversation(r.Context(), conv.ID)).Info().
		Str("agent", string(conv.ActiveAgent)).
		Msg("conversation started")
	jsonResponse(w, http.StatusCreated, conv)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, conv)
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type handoffRequest struct {
	To contractx.AgentName `json:"to"`
}

func (s *Server) handoffConversation(w http.ResponseWriter, r *http.Request) {
	var req handoffRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.To == "" {
		jsonError(w, "to is required", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	conv, err := s.service.Handoff(r.Context(), id, req.To)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	logx.From(logx.WithConversation(r.Context(), id)).Info().
		Str("to", string(req.To)).
		Msg("conversation handed off")
	jsonResponse(w, http.StatusOK, conv)
}

func (s *Server) invokeConversationTool(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{}
	if err := decodeBody(r, &args); err != nil {
		writeDomainError(w, err)
		return
	}
	res, err := s.service.InvokeTool(r.Context(), contractx.ToolCall{
		ConversationID: r.PathValue("id"),
		Agent:          contractx.AgentName(r.URL.Query().Get("agent")),
		Tool:           r.PathValue("tool"),
		Args:           args,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeToolResult(w, res)
}

func (s *Server) referenceTable(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("table") {
	case "patients":
		jsonResponse(w, http.StatusOK, mockdata.Patients())
	case "appointments":
		jsonResponse(w, http.StatusOK, mockdata.Appointments())
	case "procedure-costs":
		jsonResponse(w, http.StatusOK, mockdata.ProcedureCosts())
	case "emergency-scenarios":
		jsonResponse(w, http.StatusOK, mockdata.EmergencyScenarios())
	default:
		jsonError(w, "unknown reference table", http.StatusNotFound)
	}
}
