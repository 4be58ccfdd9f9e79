package quote

import (
	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Event string

const (
	EventSubmit       Event = "submit"
	EventReview       Event = "review"
	EventAdminAccept  Event = "admin_accept"
	EventAdminRefuse  Event = "admin_refuse"
	EventClientAccept Event = "client_accept"
	EventClientRefuse Event = "client_refuse"
	EventExpire       Event = "expire"
)

type rule struct {
	from []model.QuoteStatus
	to   model.QuoteStatus
}

// Every legal quote status change. A client may still refuse a quote it has
// accepted.
var transitions = map[Event]rule{
	EventSubmit:       {from: []model.QuoteStatus{model.QuoteDraft}, to: model.QuoteSubmitted},
	EventReview:       {from: []model.QuoteStatus{model.QuoteSubmitted, model.QuoteInReview}, to: model.QuoteInReview},
	EventAdminAccept:  {from: []model.QuoteStatus{model.QuoteSubmitted, model.QuoteInReview}, to: model.QuoteAccepted},
	EventAdminRefuse:  {from: []model.QuoteStatus{model.QuoteSubmitted, model.QuoteInReview}, to: model.QuoteRefused},
	EventClientAccept: {from: []model.QuoteStatus{model.QuoteInReview, model.QuoteAccepted}, to: model.QuoteAccepted},
	EventClientRefuse: {from: []model.QuoteStatus{model.QuoteInReview, model.QuoteAccepted}, to: model.QuoteRefused},
	EventExpire:       {from: []model.QuoteStatus{model.QuoteSubmitted, model.QuoteInReview}, to: model.QuoteExpired},
}

// Transition returns the status reached by applying ev to a quote in from.
func Transition(from model.QuoteStatus, ev Event) (model.QuoteStatus, error) {
	r, ok := transitions[ev]
	if !ok {
		return from, apperror.Validation("unknown quote event %q", ev)
	}
	for _, s := range r.from {
		if s == from {
			return r.to, nil
		}
	}
	return from, apperror.InvalidTransition("quote", from, r.to)
}

// ResponseEvent maps the status an admin answers with to its event.
func ResponseEvent(status model.QuoteStatus) (Event, bool) {
	switch status {
	case model.QuoteInReview:
		return EventReview, true
	case model.QuoteAccepted:
		return EventAdminAccept, true
	case model.QuoteRefused:
		return EventAdminRefuse, true
	}
	return "", false
}
