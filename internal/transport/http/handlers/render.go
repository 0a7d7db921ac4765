package handlers

import (
	"net/http"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

func renderMessages(catalog port.MessageCatalog, keys []domain.MessageKey) []Message {
	if len(keys) == 0 {
		return nil
	}

	messages := make([]Message, 0, len(keys))
	for _, key := range keys {
		messages = append(messages, Message{
			Key:  string(key),
			Text: catalog.Resolve(key),
		})
	}
	return messages
}

func newOperationResponse(catalog port.MessageCatalog, result usecase.Result) OperationResponse {
	return OperationResponse{
		OK:     result.OK(),
		Errors: renderMessages(catalog, result.ErrorKeys()),
		Infos:  renderMessages(catalog, result.InfoKeys()),
	}
}

// statusForResult maps the first queued error key onto an HTTP status. A
// successful result uses okStatus.
func statusForResult(result usecase.Result, okStatus int) int {
	if result.OK() {
		return okStatus
	}

	key, ok := result.FirstError()
	if !ok {
		// Silent no-op: nothing happened, nothing failed.
		return http.StatusOK
	}

	switch key {
	case domain.MsgNotFoundUser:
		return http.StatusNotFound
	case domain.MsgExistsAlreadyEmail, domain.MsgExistsAlreadyUsername:
		return http.StatusConflict
	case domain.MsgLoginAttemptsExceeded:
		return http.StatusTooManyRequests
	case domain.MsgInvalidUserBanned, domain.MsgNotVerified:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
