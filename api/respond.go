package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	contractx "github.com/Hrhcoolshegs/openai-realtime-agents/agent/contract"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Tool    string `json:"tool,omitempty"`
	Details string `json:"details,omitempty"`
}

func jsonResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonResponse(w, code, errorBody{Error: msg})
}

// statusFor maps an error kind to the HTTP status reported to callers.
func statusFor(kind string) int {
	switch kind {
	case string(contractx.ValidationMissingField),
		string(contractx.ValidationOutOfRange),
		string(contractx.ValidationUnexpectedField),
		string(contractx.ValidationInvalidType),
		"validation_failed",
		"invalid_handoff":
		return http.StatusBadRequest
	case "tool_not_found", "agent_not_found", "conversation_not_found":
		return http.StatusNotFound
	case "handoff_not_allowed", "agent_not_active":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	kind := contractx.ErrorKind(err)
	code := statusFor(kind)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	jsonResponse(w, code, errorBody{Error: err.Error(), Kind: kind})
}

func writeToolResult(w http.ResponseWriter, res contractx.ToolResult) {
	if res.Failed() {
		jsonResponse(w, statusFor(res.ErrorKind), errorBody{Error: res.Error, Kind: res.ErrorKind, Tool: res.Tool})
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// decodeBody reads an optional JSON object. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid request body: %v", contractx.ErrValidation, err)
	}
	return nil
}
