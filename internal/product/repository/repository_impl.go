package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/salora/internal/product/domain"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	"gorm.io/gorm"
)

type repo struct {
	sales salepricedomain.Repository
}

func Provide(sales salepricedomain.Repository) domain.Repository {
	return &repo{sales: sales}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, slug, description, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(product.ID),
		product.Name,
		product.Slug,
		product.Description,
		product.Metadata,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) CreateVariant(ctx context.Context, db *gorm.DB, variant *domain.Variant) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO variants (id, product_id, sku, is_master, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(variant.ID),
		int64(variant.ProductID),
		variant.SKU,
		variant.IsMaster,
		variant.Position,
		variant.CreatedAt,
		variant.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, description, metadata, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) MasterVariant(ctx context.Context, db *gorm.DB, productID int64) (*domain.Variant, error) {
	var v domain.Variant
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, sku, is_master, position, created_at, updated_at
		 FROM variants WHERE product_id = ? AND is_master = ?`,
		productID, true,
	).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

func (r *repo) ListVariants(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Variant, error) {
	var items []domain.Variant
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, sku, is_master, position, created_at, updated_at
		 FROM variants WHERE product_id = ?
		 ORDER BY is_master DESC, position ASC, id ASC`,
		productID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Touch(ctx context.Context, db *gorm.DB, productID int64, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET updated_at = ? WHERE id = ?`,
		now, productID,
	).Error
}

// SortByEffectivePrice joins every product's master price against the
// single currently-active sale of that price and orders by the coalesced
// value. Products without an active sale order by their list amount; equal
// effective prices fall back to the list amount in the same direction.
func (r *repo) SortByEffectivePrice(db *gorm.DB, currency string, now time.Time, desc bool) *gorm.DB {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	active := r.sales.CurrentlyActivePerPrice(db, now)

	return db.Session(&gorm.Session{NewDB: true}).
		Table("products").
		Select("products.*").
		Joins("JOIN variants ON variants.product_id = products.id AND variants.is_master = ?", true).
		Joins("JOIN prices ON prices.variant_id = variants.id AND prices.currency = ?", currency).
		Joins("LEFT OUTER JOIN (?) AS active_sales ON active_sales.price_id = prices.id", active).
		Order("COALESCE(active_sales.value, prices.amount) " + dir).
		Order("prices.amount " + dir)
}

func (r *repo) List(ctx context.Context, db *gorm.DB, q domain.ListQuery) ([]domain.Product, error) {
	var items []domain.Product

	if q.SortByEffectivePrice {
		err := r.SortByEffectivePrice(db, q.Currency, q.Now, q.Desc).
			WithContext(ctx).
			Scan(&items).Error
		if err != nil {
			return nil, err
		}
		return items, nil
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, description, metadata, created_at, updated_at
		 FROM products ORDER BY created_at ` + dir + `, id ` + dir,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
