package productcontroller

import (
	"regexp"
	"strings"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/cart"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/Vznu7/one-piece-web-application/store"
	"github.com/shopspring/decimal"
)

type Deps struct {
	Store store.Store
	// Sessions, when set, records product views into the shopper's
	// recently viewed list.
	Sessions cart.Persister
}

type ProductInput struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	Images      []string        `json:"images"`
	InStock     *bool           `json:"inStock"`
	Featured    bool            `json:"featured"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Product validates the input and builds a product. The slug defaults to
// the name.
func (in ProductInput) Product() (models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Product{}, apperrors.Invalid("name", "name is required")
	}
	slug := slugify(in.Slug)
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return models.Product{}, apperrors.Invalid("slug", "slug is required")
	}
	if !in.Price.IsPositive() {
		return models.Product{}, apperrors.Invalid("price", "price must be positive")
	}
	if len(in.Sizes) == 0 {
		return models.Product{}, apperrors.Invalid("sizes", "at least one size is required")
	}
	sizes := make(models.StringList, 0, len(in.Sizes))
	for _, raw := range in.Sizes {
		s, err := models.ParseSize(raw)
		if err != nil {
			return models.Product{}, apperrors.Invalid("sizes", "%v", err)
		}
		if !sizes.Contains(string(s)) {
			sizes = append(sizes, string(s))
		}
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	return models.Product{
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Price:       in.Price,
		Sizes:       sizes,
		Images:      models.StringList(in.Images),
		InStock:     inStock,
		Featured:    in.Featured,
	}, nil
}
