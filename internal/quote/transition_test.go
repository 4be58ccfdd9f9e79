package quote

import (
	"testing"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	all := []model.QuoteStatus{
		model.QuoteDraft, model.QuoteSubmitted, model.QuoteInReview,
		model.QuoteAccepted, model.QuoteRefused, model.QuoteExpired,
	}
	allowed := map[Event]map[model.QuoteStatus]model.QuoteStatus{
		EventSubmit:       {model.QuoteDraft: model.QuoteSubmitted},
		EventReview:       {model.QuoteSubmitted: model.QuoteInReview, model.QuoteInReview: model.QuoteInReview},
		EventAdminAccept:  {model.QuoteSubmitted: model.QuoteAccepted, model.QuoteInReview: model.QuoteAccepted},
		EventAdminRefuse:  {model.QuoteSubmitted: model.QuoteRefused, model.QuoteInReview: model.QuoteRefused},
		EventClientAccept: {model.QuoteInReview: model.QuoteAccepted, model.QuoteAccepted: model.QuoteAccepted},
		EventClientRefuse: {model.QuoteInReview: model.QuoteRefused, model.QuoteAccepted: model.QuoteRefused},
		EventExpire:       {model.QuoteSubmitted: model.QuoteExpired, model.QuoteInReview: model.QuoteExpired},
	}

	for ev, legal := range allowed {
		for _, from := range all {
			got, err := Transition(from, ev)
			if want, ok := legal[from]; ok {
				assert.NoError(t, err, "%s from %s", ev, from)
				assert.Equal(t, want, got, "%s from %s", ev, from)
			} else {
				assert.True(t, apperror.Is(err, apperror.KindInvalidTransition), "%s from %s", ev, from)
				assert.Equal(t, from, got)
			}
		}
	}
}

func TestUnknownEvent(t *testing.T) {
	_, err := Transition(model.QuoteDraft, "haggle")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestResponseEvent(t *testing.T) {
	ev, ok := ResponseEvent(model.QuoteAccepted)
	assert.True(t, ok)
	assert.Equal(t, EventAdminAccept, ev)

	_, ok = ResponseEvent(model.QuoteExpired)
	assert.False(t, ok)
}
