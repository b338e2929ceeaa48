package store

import (
	"context"
	"errors"

	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotPayable is returned by MarkPaid when the order's payment is no
	// longer pending or the order was cancelled.
	ErrNotPayable = errors.New("order is not awaiting payment")

	// ErrPaidByVerifierOnly is returned by UpdateOrder when the mutation
	// would move the payment status to paid.
	ErrPaidByVerifierOnly = errors.New("payment status paid can only be set by payment verification")

	ErrDuplicateEmail = errors.New("email already registered")
)

// Store is the persistence boundary shared by the HTTP handlers. Lookups
// that find nothing return an error matching apperrors.ErrNotFound.
type Store interface {
	Migrate(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	UpsertProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProducts(ctx context.Context, ids []string) (map[string]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal) (*models.Product, error)

	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error)
	// UpdateOrder applies fn to the current order under a row lock and
	// persists status, payment status, tracking number and provider order id.
	UpdateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error)
	// MarkPaid records a verified payment. An order that is already paid is
	// returned unchanged.
	MarkPaid(ctx context.Context, id, providerOrderID, providerPaymentID string) (*models.Order, error)

	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	GetAddress(ctx context.Context, userID, id string) (*models.Address, error)
	CreateAddress(ctx context.Context, a *models.Address) error
	UpdateAddress(ctx context.Context, userID, id string, fn func(*models.Address)) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, id string) error
	SetDefaultAddress(ctx context.Context, userID, id string) (*models.Address, error)
}

func checkPaidTransition(before, after models.PaymentStatus) error {
	if after == models.PaymentStatusPaid && before != models.PaymentStatusPaid {
		return ErrPaidByVerifierOnly
	}
	return nil
}

func payable(o *models.Order) error {
	if o.PaymentStatus != models.PaymentStatusPending || o.Status == models.OrderStatusCancelled {
		return ErrNotPayable
	}
	return nil
}
