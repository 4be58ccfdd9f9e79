package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/quote"
	"github.com/Emmanuel-365/chezflora-api/internal/quote/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type quoteUseCase struct {
	repo     quote.Repository
	tx       storage.TxManager
	notify   *notification.Dispatcher
	validity time.Duration
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*quoteUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *quoteUseCase) { uc.now = now }
}

// NewQuoteUseCase builds the quote workflow. validity is how long a submitted
// quote stays open before it expires.
func NewQuoteUseCase(repo quote.Repository, tx storage.TxManager, notify *notification.Dispatcher, validity time.Duration, log logger.ZapLogger, opts ...Option) quote.UseCase {
	uc := &quoteUseCase{
		repo:     repo,
		tx:       tx,
		notify:   notify,
		validity: validity,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *quoteUseCase) Create(ctx context.Context, input *dto.CreateQuoteInput) (*model.Quote, error) {
	if input.ClientID == "" {
		return nil, apperror.Validation("client is required")
	}
	if strings.TrimSpace(input.ServiceID) == "" {
		return nil, apperror.Validation("service is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperror.Validation("description is required")
	}
	if input.RequestedPrice != nil && input.RequestedPrice.IsNegative() {
		return nil, apperror.Validation("requested price must not be negative")
	}

	now := uc.now()
	q := &model.Quote{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ClientID:       input.ClientID,
		ServiceID:      input.ServiceID,
		Description:    strings.TrimSpace(input.Description),
		Status:         model.QuoteDraft,
		RequestedPrice: input.RequestedPrice,
	}
	if input.Submit {
		if err := uc.submit(q, now); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	if input.Submit {
		uc.announce(ctx, q)
	}
	return q, nil
}

func (uc *quoteUseCase) submit(q *model.Quote, now time.Time) error {
	next, err := quote.Transition(q.Status, quote.EventSubmit)
	if err != nil {
		return err
	}
	expires := now.Add(uc.validity)
	q.Status = next
	q.SubmittedAt = &now
	q.ExpiresAt = &expires
	q.UpdatedAt = now
	return nil
}

func (uc *quoteUseCase) announce(ctx context.Context, q *model.Quote) {
	uc.notify.NotifyAdmins(ctx, notification.TemplateQuoteSubmitted, map[string]interface{}{
		"quote_id":    q.ID,
		"client_id":   q.ClientID,
		"service_id":  q.ServiceID,
		"description": q.Description,
	})
}

func (uc *quoteUseCase) Get(ctx context.Context, id string, actor auth.UserContext) (*model.Quote, error) {
	q, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(q.ClientID) {
		return nil, apperror.Unauthorized("quote %s belongs to another client", id)
	}
	return q, nil
}

func (uc *quoteUseCase) find(ctx context.Context, id string) (*model.Quote, error) {
	q, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperror.NotFound("quote", id)
	}
	return q, nil
}

// mutate loads the quote in a transaction, applies fn and persists the result.
func (uc *quoteUseCase) mutate(ctx context.Context, id string, fn func(q *model.Quote, now time.Time) error) (*model.Quote, error) {
	var q *model.Quote
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		q, err = uc.find(ctx, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := fn(q, now); err != nil {
			return err
		}
		q.UpdatedAt = now
		return uc.repo.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func ownerOnly(q *model.Quote, actor auth.UserContext) error {
	if actor.UserID == "" || actor.UserID != q.ClientID {
		return apperror.Unauthorized("only the client who requested quote %s can do this", q.ID)
	}
	return nil
}

func (uc *quoteUseCase) Submit(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error) {
	q, err := uc.mutate(ctx, input.QuoteID, func(q *model.Quote, now time.Time) error {
		if err := ownerOnly(q, input.Actor); err != nil {
			return err
		}
		return uc.submit(q, now)
	})
	if err != nil {
		return nil, err
	}
	uc.announce(ctx, q)
	return q, nil
}

// ProposeResponse records the admin's answer. An overdue quote that is not
// accepted or refused by this answer expires instead.
func (uc *quoteUseCase) ProposeResponse(ctx context.Context, input *dto.ProposeResponseInput) (*model.Quote, error) {
	if !input.Actor.IsAdmin() {
		return nil, apperror.Unauthorized("only admins can answer quotes")
	}
	ev, ok := quote.ResponseEvent(input.Status)
	if !ok {
		return nil, apperror.Validation("response status must be in_review, accepted or refused, got %q", input.Status)
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, apperror.Validation("proposed price must not be negative")
	}

	q, err := uc.mutate(ctx, input.QuoteID, func(q *model.Quote, now time.Time) error {
		next, err := quote.Transition(q.Status, ev)
		if err != nil {
			return err
		}
		if input.Price != nil {
			q.ProposedPrice = input.Price
		}
		if input.Comment != nil {
			q.AdminComment = input.Comment
		}
		if q.Overdue(now) && !next.Decided() {
			next = model.QuoteExpired
		}
		q.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"quote_id": q.ID,
		"status":   string(q.Status),
	}
	if q.ProposedPrice != nil {
		data["proposed_price"] = q.ProposedPrice.StringFixed(2)
	}
	if q.AdminComment != nil {
		data["comment"] = *q.AdminComment
	}
	uc.notify.NotifyUser(ctx, q.ClientID, notification.TemplateQuoteAnswered, data)
	return q, nil
}

func (uc *quoteUseCase) Accept(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error) {
	return uc.decide(ctx, input, quote.EventClientAccept)
}

func (uc *quoteUseCase) Refuse(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error) {
	return uc.decide(ctx, input, quote.EventClientRefuse)
}

func (uc *quoteUseCase) decide(ctx context.Context, input *dto.QuoteActionInput, ev quote.Event) (*model.Quote, error) {
	q, err := uc.mutate(ctx, input.QuoteID, func(q *model.Quote, now time.Time) error {
		if err := ownerOnly(q, input.Actor); err != nil {
			return err
		}
		next, err := quote.Transition(q.Status, ev)
		if err != nil {
			return err
		}
		q.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify.NotifyAdmins(ctx, notification.TemplateQuoteDecided, map[string]interface{}{
		"quote_id":  q.ID,
		"client_id": q.ClientID,
		"status":    string(q.Status),
	})
	return q, nil
}

func (uc *quoteUseCase) ExpireOverdue(ctx context.Context) (model.BatchResult, error) {
	ids, err := uc.repo.ListOverdue(ctx, uc.now())
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to list overdue quotes: %w", err)
	}

	res := model.BatchResult{}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		res.Processed++
		expired := false
		q, err := uc.mutate(ctx, id, func(q *model.Quote, now time.Time) error {
			if !q.Overdue(now) {
				return nil
			}
			next, err := quote.Transition(q.Status, quote.EventExpire)
			if err != nil {
				return nil
			}
			q.Status = next
			expired = true
			return nil
		})
		switch {
		case err != nil:
			res.Failed++
			uc.logger.Error("failed to expire quote", zap.String("quote_id", id), zap.Error(err))
		case expired:
			res.Succeeded++
			uc.notify.NotifyUser(ctx, q.ClientID, notification.TemplateQuoteExpired, map[string]interface{}{"quote_id": q.ID})
		default:
			res.Skipped++
		}
	}
	uc.logger.Info("quote expiry finished", zap.Int("processed", res.Processed), zap.Int("expired", res.Succeeded))
	return res, nil
}
