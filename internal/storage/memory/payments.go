package memory

import (
	"context"
	"fmt"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

// Payments keeps insertion order so "latest" is well defined even when two
// payments share a timestamp.
type Payments struct{ s *Store }

func (r *Payments) Create(ctx context.Context, p *model.Payment) error {
	if err := p.Target.Validate(); err != nil {
		return err
	}
	return r.s.write(ctx, func(st *state) error {
		st.payments = append(st.payments, *p)
		return nil
	})
}

func (r *Payments) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var out *model.Payment
	r.s.read(ctx, func(st *state) {
		for _, p := range st.payments {
			if p.ID == id {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *Payments) FindLatest(ctx context.Context, target model.PaymentTarget, clientID string) (*model.Payment, error) {
	var out *model.Payment
	r.s.read(ctx, func(st *state) {
		for i := len(st.payments) - 1; i >= 0; i-- {
			p := st.payments[i]
			if p.Target != target {
				continue
			}
			if clientID != "" && p.ClientID != clientID {
				continue
			}
			out = &p
			return
		}
	})
	return out, nil
}

func (r *Payments) ListByTarget(ctx context.Context, target model.PaymentTarget) ([]model.Payment, error) {
	var out []model.Payment
	r.s.read(ctx, func(st *state) {
		for _, p := range st.payments {
			if p.Target == target {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (r *Payments) UpdateStatus(ctx context.Context, p *model.Payment) error {
	return r.s.write(ctx, func(st *state) error {
		for i := range st.payments {
			if st.payments[i].ID == p.ID {
				st.payments[i].Status = p.Status
				st.payments[i].UpdatedAt = p.UpdatedAt
				return nil
			}
		}
		return fmt.Errorf("payment %s does not exist", p.ID)
	})
}

func (r *Payments) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(st *state) error {
		for i := range st.payments {
			if st.payments[i].ID == id {
				st.payments = append(st.payments[:i:i], st.payments[i+1:]...)
				return nil
			}
		}
		return nil
	})
}
