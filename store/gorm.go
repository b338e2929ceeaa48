package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps everything in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

// Open connects to PostgreSQL using dsn.
func Open(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Println("✅ Database connected")
	return NewGormStore(db), nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	// One default address per user, enforced by the database as well.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default ON addresses (user_id) WHERE is_default`).Error; err != nil {
		return fmt.Errorf("default address index: %w", err)
	}
	log.Println("✅ Database migrated")
	return nil
}

func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

// -------- Users --------

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// -------- Products --------

// UpsertProduct inserts p, or leaves an existing product with the same slug
// untouched and loads it into p.
func (s *GormStore) UpsertProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	db := s.db.WithContext(ctx)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// p still carries the id it failed to insert with, so load into a fresh value.
	var existing models.Product
	if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err != nil {
		return notFound(err, "product")
	}
	*p = existing
	return nil
}

func (s *GormStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ? OR slug = ?", id, id).Error; err != nil {
		return nil, notFound(err, "product")
	}
	return &p, nil
}

func (s *GormStore) GetProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	var products []models.Product
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[string]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("featured DESC").Order("name").Find(&products).Error
	return products, err
}

func (s *GormStore) UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
			return notFound(err, "product")
		}
		p.Price = price
		return tx.Model(&p).Update("price", price).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -------- Orders --------

func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (s *GormStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

func (s *GormStore) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&o, "order_number = ?", number).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &o, nil
}

func (s *GormStore) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) UpdateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error; err != nil {
			return notFound(err, "order")
		}
		before := o.PaymentStatus
		if err := fn(&o); err != nil {
			return err
		}
		if err := checkPaidTransition(before, o.PaymentStatus); err != nil {
			return err
		}
		return tx.Model(&models.Order{ID: id}).Updates(map[string]interface{}{
			"status":            o.Status,
			"payment_status":    o.PaymentStatus,
			"tracking_number":   o.TrackingNumber,
			"provider_order_id": o.ProviderOrderID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *GormStore) MarkPaid(ctx context.Context, id, providerOrderID, providerPaymentID string) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error; err != nil {
			return notFound(err, "order")
		}
		if o.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}
		if err := payable(&o); err != nil {
			return err
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", id, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"payment_status":      models.PaymentStatusPaid,
				"status":              models.OrderStatusProcessing,
				"provider_order_id":   providerOrderID,
				"provider_payment_id": providerPaymentID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPayable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// -------- Addresses --------

func (s *GormStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	var addrs []models.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&addrs).Error
	return addrs, err
}

func (s *GormStore) GetAddress(ctx context.Context, userID, id string) (*models.Address, error) {
	var a models.Address
	if err := s.db.WithContext(ctx).First(&a, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, notFound(err, "address")
	}
	return &a, nil
}

// lockAddresses serialises default-address changes for one user.
func lockAddresses(tx *gorm.DB, userID string) error {
	var rows []models.Address
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Find(&rows).Error
}

func clearDefault(tx *gorm.DB, userID, keepID string) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ? AND id <> ?", userID, true, keepID).
		Update("is_default", false).Error
}

func (s *GormStore) CreateAddress(ctx context.Context, a *models.Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := lockAddresses(tx, a.UserID); err != nil {
				return err
			}
			if err := clearDefault(tx, a.UserID, a.ID); err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

func (s *GormStore) UpdateAddress(ctx context.Context, userID, id string, fn func(*models.Address)) (*models.Address, error) {
	var a models.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddresses(tx, userID); err != nil {
			return err
		}
		if err := tx.First(&a, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return notFound(err, "address")
		}
		fn(&a)
		a.ID, a.UserID = id, userID
		if a.IsDefault {
			if err := clearDefault(tx, userID, id); err != nil {
				return err
			}
		}
		return tx.Save(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *GormStore) DeleteAddress(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("address")
	}
	return nil
}

func (s *GormStore) SetDefaultAddress(ctx context.Context, userID, id string) (*models.Address, error) {
	var a models.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddresses(tx, userID); err != nil {
			return err
		}
		if err := tx.First(&a, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return notFound(err, "address")
		}
		if err := clearDefault(tx, userID, id); err != nil {
			return err
		}
		a.IsDefault = true
		return tx.Model(&a).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}
