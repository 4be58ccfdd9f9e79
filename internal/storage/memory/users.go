package memory

import (
	"context"
	"sort"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Users struct{ s *Store }

func (r *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	var out *model.User
	r.s.read(ctx, func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *Users) ListAdmins(ctx context.Context) ([]model.User, error) {
	var out []model.User
	r.s.read(ctx, func(st *state) {
		for _, u := range st.users {
			if u.Role == model.RoleAdmin && u.IsActive {
				out = append(out, u)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
