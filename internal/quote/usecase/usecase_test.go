package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/notification/notificationtest"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/quote"
	"github.com/Emmanuel-365/chezflora-api/internal/quote/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner = auth.UserContext{UserID: "client-1", Role: model.RoleClient}
	admin = auth.UserContext{UserID: "admin-1", Role: model.RoleAdmin}
	t0    = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
)

const validity = 30 * 24 * time.Hour

type fixture struct {
	uc       quote.UseCase
	notified *notificationtest.Recorder
	clock    time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SaveUser(model.User{ID: owner.UserID, Email: "client@flora.test", Role: model.RoleClient, IsActive: true})
	store.SaveUser(model.User{ID: admin.UserID, Email: "admin@flora.test", Role: model.RoleAdmin, IsActive: true})

	f := &fixture{notified: &notificationtest.Recorder{}, clock: t0}
	log := logger.NewNop()
	f.uc = NewQuoteUseCase(store.Quotes(), store, notification.NewDispatcher(f.notified, store.Users(), log), validity, log,
		WithClock(func() time.Time { return f.clock }))
	return f
}

func (f *fixture) draft(t *testing.T) *model.Quote {
	t.Helper()
	q, err := f.uc.Create(context.Background(), &dto.CreateQuoteInput{
		ClientID: owner.UserID, ServiceID: "wedding", Description: "Arch of white peonies",
	})
	require.NoError(t, err)
	return q
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNegotiationFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.draft(t)
	assert.Equal(t, model.QuoteDraft, q.Status)

	q, err := f.uc.Submit(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteSubmitted, q.Status)
	require.NotNil(t, q.ExpiresAt)
	assert.True(t, q.ExpiresAt.Equal(t0.Add(validity)))
	assert.Equal(t, []string{"admin@flora.test"}, f.notified.Sent(notification.TemplateQuoteSubmitted))

	q, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteAccepted, Price: price("5000"), Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteAccepted, q.Status)
	assert.Equal(t, "5000.00", q.ProposedPrice.StringFixed(2))
	assert.Equal(t, []string{"client@flora.test"}, f.notified.Sent(notification.TemplateQuoteAnswered))

	q, err = f.uc.Accept(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteAccepted, q.Status)

	q, err = f.uc.Refuse(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteRefused, q.Status)

	_, err = f.uc.Accept(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))
}

func TestAcceptNeedsAnAnswer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.draft(t)

	_, err := f.uc.Accept(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	_, err = f.uc.Submit(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	require.NoError(t, err)
	_, err = f.uc.Accept(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))
}

func TestResponseKeepsPreviousPriceAndComment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q, err := f.uc.Create(ctx, &dto.CreateQuoteInput{ClientID: owner.UserID, ServiceID: "event", Description: "Gala", Submit: true})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteSubmitted, q.Status)

	comment := "Checking availability"
	_, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteInReview, Price: price("1200"), Comment: &comment, Actor: admin})
	require.NoError(t, err)

	q, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteInReview, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, "1200.00", q.ProposedPrice.StringFixed(2))
	assert.Equal(t, comment, *q.AdminComment)
}

func TestResponseGuards(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.draft(t)

	_, err := f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteAccepted, Actor: owner})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	_, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteExpired, Actor: admin})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteAccepted, Price: price("-1"), Actor: admin})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteAccepted, Actor: admin})
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))

	_, err = f.uc.Submit(ctx, &dto.QuoteActionInput{QuoteID: q.ID, Actor: admin})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestOverdueResponseExpires(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q, err := f.uc.Create(ctx, &dto.CreateQuoteInput{ClientID: owner.UserID, ServiceID: "event", Description: "Gala", Submit: true})
	require.NoError(t, err)

	f.clock = t0.Add(validity + time.Hour)
	got, err := f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: q.ID, Status: model.QuoteInReview, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteExpired, got.Status)

	other, err := f.uc.Create(ctx, &dto.CreateQuoteInput{ClientID: owner.UserID, ServiceID: "event", Description: "Brunch", Submit: true})
	require.NoError(t, err)
	f.clock = f.clock.Add(validity + time.Hour)
	got, err = f.uc.ProposeResponse(ctx, &dto.ProposeResponseInput{QuoteID: other.ID, Status: model.QuoteAccepted, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, model.QuoteAccepted, got.Status)
}

func TestExpireOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	late, err := f.uc.Create(ctx, &dto.CreateQuoteInput{ClientID: owner.UserID, ServiceID: "event", Description: "Gala", Submit: true})
	require.NoError(t, err)
	f.draft(t)

	f.clock = t0.Add(10 * 24 * time.Hour)
	fresh, err := f.uc.Create(ctx, &dto.CreateQuoteInput{ClientID: owner.UserID, ServiceID: "event", Description: "Brunch", Submit: true})
	require.NoError(t, err)

	f.clock = t0.Add(validity + time.Minute)
	res, err := f.uc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Succeeded)

	got, err := f.uc.Get(ctx, late.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteExpired, got.Status)
	got, err = f.uc.Get(ctx, fresh.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteSubmitted, got.Status)
	assert.Equal(t, []string{"client@flora.test"}, f.notified.Sent(notification.TemplateQuoteExpired))
}
