package usecase

import "github.com/arklim/social-platform-accounts/internal/core/domain"

// Result carries the outcome of an account operation: an ok flag plus
// ordered error and info message-key queues. Domain failures ride the error
// queue instead of Go errors so callers can render them through the message
// catalog; a Go error alongside a zero Result always means the persistence
// layer failed. Each operation returns a fresh Result, so queues never leak
// between calls.
//
// Fail-fast: at most one error key is queued per operation. The one
// exception is the silent no-op (update with no fields), which is not ok but
// queues nothing.
type Result struct {
	ok     bool
	errors []domain.MessageKey
	infos  []domain.MessageKey
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.ok }

// ErrorKeys returns the ordered error queue; the first element is the
// primary failure reason.
func (r Result) ErrorKeys() []domain.MessageKey { return r.errors }

// InfoKeys returns the ordered info queue.
func (r Result) InfoKeys() []domain.MessageKey { return r.infos }

// FirstError returns the primary failure key, if any.
func (r Result) FirstError() (domain.MessageKey, bool) {
	if len(r.errors) == 0 {
		return "", false
	}
	return r.errors[0], true
}

func failure(key domain.MessageKey) Result {
	return Result{errors: []domain.MessageKey{key}}
}

// silentNoOp distinguishes "nothing to do" from a validation failure: not
// ok, empty queues.
func silentNoOp() Result {
	return Result{}
}

func success(infos ...domain.MessageKey) Result {
	return Result{ok: true, infos: infos}
}
