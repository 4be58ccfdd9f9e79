package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Quotes struct{ s *Store }

func (r *Quotes) Create(ctx context.Context, q *model.Quote) error {
	return r.s.write(ctx, func(st *state) error {
		st.quotes[q.ID] = *q
		return nil
	})
}

func (r *Quotes) FindByID(ctx context.Context, id string) (*model.Quote, error) {
	var out *model.Quote
	r.s.read(ctx, func(st *state) {
		if q, ok := st.quotes[id]; ok {
			out = &q
		}
	})
	return out, nil
}

func (r *Quotes) Update(ctx context.Context, q *model.Quote) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.quotes[q.ID]; !ok {
			return fmt.Errorf("quote %s does not exist", q.ID)
		}
		st.quotes[q.ID] = *q
		return nil
	})
}

func (r *Quotes) ListOverdue(ctx context.Context, at time.Time) ([]string, error) {
	var quotes []model.Quote
	r.s.read(ctx, func(st *state) {
		for _, q := range st.quotes {
			if (q.Status == model.QuoteSubmitted || q.Status == model.QuoteInReview) && q.Overdue(at) {
				quotes = append(quotes, q)
			}
		}
	})
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].ExpiresAt.Before(*quotes[j].ExpiresAt) })
	ids := make([]string, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
	}
	return ids, nil
}
