package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/catalog/dto"
	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, category_id, name, description, price, stock, is_active, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, description, is_active, created_at, updated_at)
        VALUES (:id, :name, :description, :is_active, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &c,
		`SELECT id, name, description, is_active, created_at, updated_at FROM categories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES (:id, :category_id, :name, :description, :price, :stock, :is_active, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

// UpdateProduct never writes stock; stock only moves through the conditional
// increment and decrement below.
func (r *PGRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            name = :name,
            description = :description,
            price = :price,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1` + postgres.ForUpdate(ctx)
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "name ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	db := postgres.Conn(ctx, r.DB)

	var count int
	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + productColumns + " FROM products" + whereClause + " ORDER BY name, id"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}

	products := []model.Product{}
	if err := db.SelectContext(ctx, &products, db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE is_active = TRUE AND stock < $1 ORDER BY stock, name`, threshold)
	return products, err
}

func (r *PGRepository) DecrementStock(ctx context.Context, productID string, qty int) (bool, error) {
	res, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1`, qty, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) IncrementStock(ctx context.Context, productID string, qty int) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`, qty, productID)
	return err
}

func (r *PGRepository) CreatePromotion(ctx context.Context, p *model.Promotion) error {
	db := postgres.Conn(ctx, r.DB)
	query := `
        INSERT INTO promotions (id, name, discount, starts_at, ends_at, category_id, is_active, created_at, updated_at)
        VALUES (:id, :name, :discount, :starts_at, :ends_at, :category_id, :is_active, :created_at, :updated_at)
    `
	if _, err := db.NamedExecContext(ctx, query, p); err != nil {
		return err
	}
	for _, productID := range p.ProductIDs {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO promotion_products (promotion_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			p.ID, productID); err != nil {
			return fmt.Errorf("failed to link promotion product: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) UpdatePromotion(ctx context.Context, p *model.Promotion) error {
	query := `
        UPDATE promotions
        SET name = :name,
            discount = :discount,
            starts_at = :starts_at,
            ends_at = :ends_at,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindPromotionByID(ctx context.Context, id string) (*model.Promotion, error) {
	db := postgres.Conn(ctx, r.DB)
	var p model.Promotion
	err := db.GetContext(ctx, &p,
		`SELECT id, name, discount, starts_at, ends_at, category_id, is_active, created_at, updated_at
         FROM promotions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPromotionProducts(ctx, db, []*model.Promotion{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ActivePromotions(ctx context.Context, productID, categoryID string, at time.Time) ([]model.Promotion, error) {
	db := postgres.Conn(ctx, r.DB)
	var promos []model.Promotion
	err := db.SelectContext(ctx, &promos, `
        SELECT id, name, discount, starts_at, ends_at, category_id, is_active, created_at, updated_at
        FROM promotions
        WHERE is_active = TRUE
          AND starts_at <= $1 AND ends_at > $1
          AND (category_id = $2 OR id IN (SELECT promotion_id FROM promotion_products WHERE product_id = $3))
        ORDER BY starts_at
    `, at, categoryID, productID)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*model.Promotion, len(promos))
	for i := range promos {
		ptrs[i] = &promos[i]
	}
	if err := r.loadPromotionProducts(ctx, db, ptrs); err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *PGRepository) loadPromotionProducts(ctx context.Context, db postgres.Executor, promos []*model.Promotion) error {
	if len(promos) == 0 {
		return nil
	}
	byID := make(map[string]*model.Promotion, len(promos))
	ids := make([]string, 0, len(promos))
	for _, p := range promos {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query, args, err := sqlx.In(`SELECT promotion_id, product_id FROM promotion_products WHERE promotion_id IN (?) ORDER BY product_id`, ids)
	if err != nil {
		return err
	}
	var links []struct {
		PromotionID string `db:"promotion_id"`
		ProductID   string `db:"product_id"`
	}
	if err := db.SelectContext(ctx, &links, db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load promotion products: %w", err)
	}
	for _, l := range links {
		p := byID[l.PromotionID]
		p.ProductIDs = append(p.ProductIDs, l.ProductID)
	}
	return nil
}

func (r *PGRepository) CreatePhoto(ctx context.Context, p *model.Photo) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`INSERT INTO photos (id, owner_kind, owner_id, url, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Owner.Kind, p.Owner.ID, p.URL, p.CreatedAt)
	return err
}
