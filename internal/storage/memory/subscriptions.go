package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Subscriptions struct{ s *Store }

func (r *Subscriptions) Create(ctx context.Context, sub *model.Subscription) error {
	return r.s.write(ctx, func(st *state) error {
		st.subscriptions[sub.ID] = cloneSubscription(*sub)
		return nil
	})
}

func (r *Subscriptions) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	var out *model.Subscription
	r.s.read(ctx, func(st *state) {
		if sub, ok := st.subscriptions[id]; ok {
			c := cloneSubscription(sub)
			out = &c
		}
	})
	return out, nil
}

func (r *Subscriptions) Update(ctx context.Context, sub *model.Subscription) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.subscriptions[sub.ID]
		if !ok {
			return fmt.Errorf("subscription %s does not exist", sub.ID)
		}
		next := *sub
		next.Items = cur.Items
		st.subscriptions[sub.ID] = next
		return nil
	})
}

func (r *Subscriptions) ReplaceItems(ctx context.Context, subscriptionID string, items []model.SubscriptionItem) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.subscriptions[subscriptionID]
		if !ok {
			return fmt.Errorf("subscription %s does not exist", subscriptionID)
		}
		cur.Items = append([]model.SubscriptionItem(nil), items...)
		st.subscriptions[subscriptionID] = cur
		return nil
	})
}

func (r *Subscriptions) ListDueForDelivery(ctx context.Context, at time.Time) ([]string, error) {
	return r.due(ctx, func(sub model.Subscription) bool {
		return sub.IsActive && sub.NextDelivery != nil && !sub.NextDelivery.After(at)
	}), nil
}

func (r *Subscriptions) ListDueForBilling(ctx context.Context, at time.Time) ([]string, error) {
	return r.due(ctx, func(sub model.Subscription) bool {
		return sub.IsActive && sub.PaymentStatus == model.SubscriptionPaidMonthly &&
			sub.NextBilling != nil && !sub.NextBilling.After(at)
	}), nil
}

func (r *Subscriptions) due(ctx context.Context, match func(model.Subscription) bool) []string {
	var subs []model.Subscription
	r.s.read(ctx, func(st *state) {
		for _, sub := range st.subscriptions {
			if match(sub) {
				subs = append(subs, sub)
			}
		}
	})
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	return ids
}
