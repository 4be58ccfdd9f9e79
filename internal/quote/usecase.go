package quote

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/quote/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateQuoteInput) (*model.Quote, error)
	Get(ctx context.Context, id string, actor auth.UserContext) (*model.Quote, error)
	Submit(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error)
	ProposeResponse(ctx context.Context, input *dto.ProposeResponseInput) (*model.Quote, error)
	Accept(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error)
	Refuse(ctx context.Context, input *dto.QuoteActionInput) (*model.Quote, error)
	ExpireOverdue(ctx context.Context) (model.BatchResult, error)
}
