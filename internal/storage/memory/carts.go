package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/google/uuid"
)

type Carts struct{ s *Store }

func lineKey(cartID, productID string) string {
	return cartID + "/" + productID
}

func (r *Carts) GetOrCreate(ctx context.Context, clientID string) (*model.Cart, error) {
	var out model.Cart
	err := r.s.write(ctx, func(st *state) error {
		for _, c := range st.carts {
			if c.ClientID == clientID {
				out = c
				return nil
			}
		}
		now := time.Now()
		out = model.Cart{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ClientID:  clientID,
		}
		st.carts[out.ID] = out
		return nil
	})
	return &out, err
}

func (r *Carts) FindLine(ctx context.Context, cartID, productID string) (*model.CartLine, error) {
	var out *model.CartLine
	r.s.read(ctx, func(st *state) {
		if l, ok := st.cartLines[lineKey(cartID, productID)]; ok {
			out = &l
		}
	})
	return out, nil
}

func (r *Carts) SaveLine(ctx context.Context, line *model.CartLine) error {
	return r.s.write(ctx, func(st *state) error {
		st.cartLines[lineKey(line.CartID, line.ProductID)] = *line
		return nil
	})
}

func (r *Carts) DeleteLine(ctx context.Context, cartID, productID string) error {
	return r.s.write(ctx, func(st *state) error {
		delete(st.cartLines, lineKey(cartID, productID))
		return nil
	})
}

func (r *Carts) ListLines(ctx context.Context, cartID string) ([]model.CartLine, error) {
	var out []model.CartLine
	r.s.read(ctx, func(st *state) {
		for _, l := range st.cartLines {
			if l.CartID == cartID {
				out = append(out, l)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out, nil
}

func (r *Carts) ClearLines(ctx context.Context, cartID string) error {
	return r.s.write(ctx, func(st *state) error {
		for k, l := range st.cartLines {
			if l.CartID == cartID {
				delete(st.cartLines, k)
			}
		}
		return nil
	})
}
