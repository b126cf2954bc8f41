package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gomartvn/storefront-backend/pkg/db/models"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	"github.com/gomartvn/storefront-backend/pkg/pagination"
)

// mutableColumns are the only order columns writable after creation.
var mutableColumns = map[string]struct{}{
	"status":       {},
	"payment_link": {},
	"deleted":      {},
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND deleted = FALSE", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type summaryRow struct {
	ID            uuid.UUID
	Status        enums.OrderStatus
	PaymentMethod enums.PaymentMethod
	TotalUnits    int64
	TotalItems    int
	CreatedAt     time.Time
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	query := r.baseListQuery(ctx, filters).Where("orders.owner_id = ?", ownerID)
	return r.page(query, params)
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return r.page(r.baseListQuery(ctx, filters), params)
}

func (r *repository) baseListQuery(ctx context.Context, filters ListFilters) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`orders.id,
			orders.status,
			orders.payment_method,
			orders.total_units,
			orders.created_at,
			(SELECT COALESCE(SUM(li.quantity), 0)
			   FROM order_line_items li
			  WHERE li.order_id = orders.id) AS total_items`).
		Where("orders.deleted = FALSE")

	if filters.Status != nil {
		query = query.Where("orders.status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("orders.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("orders.created_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *repository) page(query *gorm.DB, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(orders.created_at, orders.id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []summaryRow
	err = query.
		Order("orders.created_at DESC, orders.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	list := &OrderList{Orders: make([]Summary, 0, len(rows))}
	for _, row := range rows {
		list.Orders = append(list.Orders, Summary{
			ID:            row.ID,
			Status:        row.Status,
			PaymentMethod: row.PaymentMethod,
			TotalUnits:    row.TotalUnits,
			TotalItems:    row.TotalItems,
			CreatedAt:     row.CreatedAt,
		})
	}
	if hasMore {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	for column := range updates {
		if _, ok := mutableColumns[column]; !ok {
			return fmt.Errorf("order column %q is immutable", column)
		}
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND deleted = FALSE", id).
		Updates(updates).Error
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.Update(ctx, id, map[string]any{"deleted": true})
}
