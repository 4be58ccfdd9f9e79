package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type Catalog struct{ s *Store }

func (r *Catalog) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.s.write(ctx, func(st *state) error {
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *Catalog) FindCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	var out *model.Category
	r.s.read(ctx, func(st *state) {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *Catalog) CreateProduct(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(st *state) error {
		st.products[p.ID] = *p
		return nil
	})
}

func (r *Catalog) UpdateProduct(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return fmt.Errorf("product %s does not exist", p.ID)
		}
		// stock is owned by the stock operations
		next := *p
		next.Stock = cur.Stock
		st.products[p.ID] = next
		return nil
	})
}

func (r *Catalog) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	var out *model.Product
	r.s.read(ctx, func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *Catalog) FindProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var all []model.Product
	q := strings.ToLower(f.SearchQuery)
	r.s.read(ctx, func(st *state) {
		for _, p := range st.products {
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if f.ActiveOnly && !p.IsActive {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
				continue
			}
			all = append(all, p)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	count := len(all)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.PageSize
		if start > count {
			start = count
		}
		end := start + f.PageSize
		if end > count {
			end = count
		}
		all = all[start:end]
	}
	return all, count, nil
}

func (r *Catalog) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var out []model.Product
	r.s.read(ctx, func(st *state) {
		for _, p := range st.products {
			if p.IsActive && p.Stock < threshold {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *Catalog) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	var ok bool
	err := r.s.write(ctx, func(st *state) error {
		p, found := st.products[productID]
		if !found {
			return fmt.Errorf("product %s does not exist", productID)
		}
		if p.Stock < qty {
			return nil
		}
		p.Stock -= qty
		st.products[productID] = p
		ok = true
		return nil
	})
	return ok, err
}

func (r *Catalog) IncrementStock(ctx context.Context, productID string, qty int) error {
	return r.s.write(ctx, func(st *state) error {
		p, found := st.products[productID]
		if !found {
			return fmt.Errorf("product %s does not exist", productID)
		}
		p.Stock += qty
		st.products[productID] = p
		return nil
	})
}

func (r *Catalog) CreatePromotion(ctx context.Context, p *model.Promotion) error {
	return r.s.write(ctx, func(st *state) error {
		st.promotions[p.ID] = clonePromotion(*p)
		return nil
	})
}

func (r *Catalog) UpdatePromotion(ctx context.Context, p *model.Promotion) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.promotions[p.ID]; !ok {
			return fmt.Errorf("promotion %s does not exist", p.ID)
		}
		st.promotions[p.ID] = clonePromotion(*p)
		return nil
	})
}

func (r *Catalog) FindPromotionByID(ctx context.Context, id string) (*model.Promotion, error) {
	var out *model.Promotion
	r.s.read(ctx, func(st *state) {
		if p, ok := st.promotions[id]; ok {
			c := clonePromotion(p)
			out = &c
		}
	})
	return out, nil
}

func (r *Catalog) ActivePromotions(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error) {
	target := &model.Product{BaseModel: model.BaseModel{ID: productID}, CategoryID: categoryID}
	var out []model.Promotion
	r.s.read(ctx, func(st *state) {
		for _, p := range st.promotions {
			if p.AppliesTo(target, at) {
				out = append(out, clonePromotion(p))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *Catalog) CreatePhoto(ctx context.Context, p *model.Photo) error {
	return r.s.write(ctx, func(st *state) error {
		st.photos[p.ID] = *p
		return nil
	})
}
