package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/apperror"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/notification"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	paymentdto "github.com/Emmanuel-365/chezflora-api/internal/payment/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type workshopUseCase struct {
	repo     workshop.Repository
	payments payment.UseCase
	tx       storage.TxManager
	notify   *notification.Dispatcher
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*workshopUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *workshopUseCase) { uc.now = now }
}

func NewWorkshopUseCase(
	repo workshop.Repository,
	payments payment.UseCase,
	tx storage.TxManager,
	notify *notification.Dispatcher,
	log logger.ZapLogger,
	opts ...Option,
) workshop.UseCase {
	uc := &workshopUseCase{
		repo:     repo,
		payments: payments,
		tx:       tx,
		notify:   notify,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *workshopUseCase) Create(ctx context.Context, input *dto.CreateWorkshopInput) (*model.Workshop, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("workshop name is required")
	}
	if input.Date.IsZero() {
		return nil, apperror.Validation("workshop date is required")
	}
	if input.DurationMinutes <= 0 {
		return nil, apperror.Validation("duration must be positive")
	}
	if input.Price.IsNegative() {
		return nil, apperror.Validation("price must not be negative")
	}
	if input.TotalSeats <= 0 {
		return nil, apperror.Validation("a workshop needs at least one seat")
	}

	now := uc.now()
	w := &model.Workshop{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:            name,
		Date:            input.Date,
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price.Round(2),
		TotalSeats:      input.TotalSeats,
		AvailableSeats:  input.TotalSeats,
		IsActive:        true,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		w.Description = &desc
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create workshop: %w", err)
	}
	uc.logger.Info("workshop created", zap.String("workshop_id", w.ID), zap.Int("seats", w.TotalSeats))
	return w, nil
}

func (uc *workshopUseCase) find(ctx context.Context, id string) (*model.Workshop, error) {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("workshop", id)
	}
	return w, nil
}

func (uc *workshopUseCase) Get(ctx context.Context, id string) (*model.Workshop, error) {
	return uc.find(ctx, id)
}

func (uc *workshopUseCase) ListAvailable(ctx context.Context) ([]model.Workshop, error) {
	ws, err := uc.repo.ListAvailable(ctx, uc.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list workshops: %w", err)
	}
	if ws == nil {
		ws = []model.Workshop{}
	}
	return ws, nil
}

func (uc *workshopUseCase) Enroll(ctx context.Context, input *dto.EnrollmentInput) (*model.Participant, error) {
	if !input.Actor.IsClient() {
		return nil, apperror.Unauthorized("only clients can enroll in workshops")
	}

	var (
		w *model.Workshop
		p *model.Participant
	)
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		w, err = uc.find(ctx, input.WorkshopID)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return apperror.New(apperror.KindInvalidTransition, "workshop %s is not open for enrollment", w.ID)
		}
		if w.AvailableSeats <= 0 {
			return apperror.New(apperror.KindNoSeatsAvailable, "workshop %s is full", w.ID)
		}

		p, err = uc.repo.FindParticipant(ctx, w.ID, input.Actor.UserID)
		if err != nil {
			return err
		}
		if p != nil && p.Active() {
			return apperror.New(apperror.KindAlreadyEnrolled, "user %s is already enrolled in workshop %s", input.Actor.UserID, w.ID)
		}

		taken, err := uc.repo.TakeSeat(ctx, w.ID)
		if err != nil {
			return fmt.Errorf("failed to take seat: %w", err)
		}
		if !taken {
			return apperror.New(apperror.KindNoSeatsAvailable, "workshop %s is full", w.ID)
		}

		now := uc.now()
		if p == nil {
			p = &model.Participant{
				ID:           uuid.New().String(),
				WorkshopID:   w.ID,
				UserID:       input.Actor.UserID,
				RegisteredAt: now,
			}
		}
		p.Status = model.ParticipantRegistered
		p.UpdatedAt = now
		if err := uc.repo.SaveParticipant(ctx, p); err != nil {
			return fmt.Errorf("failed to save participant: %w", err)
		}

		_, err = uc.payments.Record(ctx, &paymentdto.RecordPaymentInput{
			Target:   model.ForWorkshop(w.ID),
			ClientID: input.Actor.UserID,
			Amount:   w.Price,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notify.NotifyUser(ctx, p.UserID, notification.TemplateWorkshopEnrolled, map[string]interface{}{
		"workshop_id": w.ID,
		"name":        w.Name,
		"date":        w.Date,
	})
	return p, nil
}

func (uc *workshopUseCase) Withdraw(ctx context.Context, input *dto.EnrollmentInput) error {
	var w *model.Workshop
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		w, err = uc.find(ctx, input.WorkshopID)
		if err != nil {
			return err
		}
		p, err := uc.repo.FindParticipant(ctx, w.ID, input.Actor.UserID)
		if err != nil {
			return err
		}
		if p == nil || !p.Active() {
			return apperror.New(apperror.KindNotEnrolled, "user %s is not enrolled in workshop %s", input.Actor.UserID, w.ID)
		}

		p.Status = model.ParticipantCancelled
		p.UpdatedAt = uc.now()
		if err := uc.repo.SaveParticipant(ctx, p); err != nil {
			return fmt.Errorf("failed to cancel participant: %w", err)
		}
		if err := uc.repo.ReleaseSeat(ctx, w.ID); err != nil {
			return fmt.Errorf("failed to release seat: %w", err)
		}
		_, err = uc.payments.ReverseLatest(ctx, model.ForWorkshop(w.ID), p.UserID, model.PaymentRefunded)
		return err
	})
	if err != nil {
		return err
	}

	uc.notify.NotifyUser(ctx, input.Actor.UserID, notification.TemplateWorkshopWithdrawn, map[string]interface{}{
		"workshop_id": w.ID,
		"name":        w.Name,
	})
	return nil
}

// Cancel closes the workshop and refunds everyone still enrolled. Participant
// rows keep their status so attendance history survives.
func (uc *workshopUseCase) Cancel(ctx context.Context, input *dto.CancelWorkshopInput) (*model.Workshop, error) {
	if !input.Actor.IsAdmin() {
		return nil, apperror.Unauthorized("only admins can cancel a workshop")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperror.Validation("a cancellation reason is required")
	}

	var (
		w        *model.Workshop
		enrolled []string
	)
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		w, err = uc.find(ctx, input.WorkshopID)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return apperror.New(apperror.KindInvalidTransition, "workshop %s is already cancelled", w.ID)
		}

		participants, err := uc.repo.ListParticipants(ctx, w.ID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		for _, p := range participants {
			if !p.Active() {
				continue
			}
			if _, err := uc.payments.ReverseLatest(ctx, model.ForWorkshop(w.ID), p.UserID, model.PaymentRefunded); err != nil {
				return err
			}
			enrolled = append(enrolled, p.UserID)
		}

		w.IsActive = false
		w.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("workshop cancelled",
		zap.String("workshop_id", w.ID),
		zap.Int("participants", len(enrolled)),
		zap.String("by", input.Actor.UserID),
	)
	for _, userID := range enrolled {
		uc.notify.NotifyUser(ctx, userID, notification.TemplateWorkshopCancelled, map[string]interface{}{
			"workshop_id": w.ID,
			"name":        w.Name,
			"reason":      reason,
		})
	}
	return w, nil
}

func (uc *workshopUseCase) MarkAttended(ctx context.Context, input *dto.MarkAttendedInput) (*model.Participant, error) {
	var p *model.Participant
	err := uc.tx.WithTransaction(ctx, func(ctx context.Context) error {
		w, err := uc.find(ctx, input.WorkshopID)
		if err != nil {
			return err
		}
		p, err = uc.repo.FindParticipant(ctx, w.ID, input.UserID)
		if err != nil {
			return err
		}
		if p == nil || !p.Active() {
			return apperror.New(apperror.KindNotEnrolled, "user %s is not enrolled in workshop %s", input.UserID, w.ID)
		}
		if p.Status != model.ParticipantRegistered {
			return apperror.InvalidTransition("participant", p.Status, model.ParticipantAttended)
		}
		p.Status = model.ParticipantAttended
		p.UpdatedAt = uc.now()
		return uc.repo.SaveParticipant(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
