package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Workshops struct{ s *Store }

func (r *Workshops) Create(ctx context.Context, w *model.Workshop) error {
	return r.s.write(ctx, func(st *state) error {
		st.workshops[w.ID] = *w
		return nil
	})
}

func (r *Workshops) FindByID(ctx context.Context, id string) (*model.Workshop, error) {
	var out *model.Workshop
	r.s.read(ctx, func(st *state) {
		if w, ok := st.workshops[id]; ok {
			out = &w
		}
	})
	return out, nil
}

func (r *Workshops) Update(ctx context.Context, w *model.Workshop) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.workshops[w.ID]
		if !ok {
			return fmt.Errorf("workshop %s does not exist", w.ID)
		}
		// seats are owned by TakeSeat and ReleaseSeat
		next := *w
		next.AvailableSeats = cur.AvailableSeats
		st.workshops[w.ID] = next
		return nil
	})
}

func (r *Workshops) ListAvailable(ctx context.Context, from time.Time) ([]model.Workshop, error) {
	var out []model.Workshop
	r.s.read(ctx, func(st *state) {
		for _, w := range st.workshops {
			if w.IsActive && w.AvailableSeats > 0 && !w.Date.Before(from) {
				out = append(out, w)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *Workshops) TakeSeat(ctx context.Context, workshopID string) (bool, error) {
	var ok bool
	err := r.s.write(ctx, func(st *state) error {
		w, found := st.workshops[workshopID]
		if !found {
			return fmt.Errorf("workshop %s does not exist", workshopID)
		}
		if w.AvailableSeats <= 0 {
			return nil
		}
		w.AvailableSeats--
		st.workshops[workshopID] = w
		ok = true
		return nil
	})
	return ok, err
}

func (r *Workshops) ReleaseSeat(ctx context.Context, workshopID string) error {
	return r.s.write(ctx, func(st *state) error {
		w, found := st.workshops[workshopID]
		if !found {
			return fmt.Errorf("workshop %s does not exist", workshopID)
		}
		if w.AvailableSeats < w.TotalSeats {
			w.AvailableSeats++
		}
		st.workshops[workshopID] = w
		return nil
	})
}

func participantKey(workshopID, userID string) string {
	return workshopID + "/" + userID
}

func (r *Workshops) FindParticipant(ctx context.Context, workshopID, userID string) (*model.Participant, error) {
	var out *model.Participant
	r.s.read(ctx, func(st *state) {
		if p, ok := st.participants[participantKey(workshopID, userID)]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *Workshops) SaveParticipant(ctx context.Context, p *model.Participant) error {
	return r.s.write(ctx, func(st *state) error {
		st.participants[participantKey(p.WorkshopID, p.UserID)] = *p
		return nil
	})
}

func (r *Workshops) ListParticipants(ctx context.Context, workshopID string) ([]model.Participant, error) {
	var out []model.Participant
	r.s.read(ctx, func(st *state) {
		for _, p := range st.participants {
			if p.WorkshopID == workshopID {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
