package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Orders struct{ s *Store }

func (r *Orders) Create(ctx context.Context, o *model.Order) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return fmt.Errorf("order %s already exists", o.ID)
		}
		st.orders[o.ID] = cloneOrder(*o)
		return nil
	})
}

func (r *Orders) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var out *model.Order
	r.s.read(ctx, func(st *state) {
		if o, ok := st.orders[id]; ok {
			c := cloneOrder(o)
			out = &c
		}
	})
	return out, nil
}

func (r *Orders) ListByClient(ctx context.Context, clientID string) ([]model.Order, error) {
	var out []model.Order
	r.s.read(ctx, func(st *state) {
		for _, o := range st.orders {
			if o.ClientID == clientID {
				out = append(out, cloneOrder(o))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Orders) UpdateStatus(ctx context.Context, o *model.Order) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return fmt.Errorf("order %s does not exist", o.ID)
		}
		cur.Status = o.Status
		cur.UpdatedAt = o.UpdatedAt
		st.orders[o.ID] = cur
		return nil
	})
}
