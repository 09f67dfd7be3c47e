// Package mockdata loads the canonical in-memory collections the service starts with.
package mockdata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ridloal/supermarket-management/internal/platform/money"
	productDomain "github.com/ridloal/supermarket-management/internal/product/domain"
	saleDomain "github.com/ridloal/supermarket-management/internal/sale/domain"
	userDomain "github.com/ridloal/supermarket-management/internal/user/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

var ErrInvalidSeed = errors.New("invalid seed data")

type Data struct {
	Users    []userDomain.User
	Products []productDomain.Product
	Sales    []saleDomain.Sale
}

type userRecord struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Email          string `yaml:"email"`
	Role           string `yaml:"role"`
	PasswordHash   string `yaml:"passwordHash"`
	CreatedDaysAgo int    `yaml:"createdDaysAgo"`
}

type productRecord struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Category     string  `yaml:"category"`
	Price        float64 `yaml:"price"`
	Stock        int     `yaml:"stock"`
	ReorderLevel int     `yaml:"reorderLevel"`
	Supplier     string  `yaml:"supplier"`
	AddedDaysAgo int     `yaml:"addedDaysAgo"`
}

type saleRecord struct {
	ID        string `yaml:"id"`
	DaysAgo   int    `yaml:"daysAgo"`
	CashierID string `yaml:"cashierId"`
	Items     []struct {
		ProductID string `yaml:"productId"`
		Quantity  int    `yaml:"quantity"`
	} `yaml:"items"`
}

type seedFile struct {
	Users    []userRecord    `yaml:"users"`
	Products []productRecord `yaml:"products"`
	Sales    []saleRecord    `yaml:"sales"`
}

// Load reads the seed at path, or the embedded default when path is empty.
func Load(path string, now time.Time) (*Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw, now)
}

// Parse decodes seed YAML. Relative day offsets are resolved against now.
func Parse(raw []byte, now time.Time) (*Data, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }
	data := &Data{}

	users := make(map[string]userDomain.User, len(f.Users))
	for _, r := range f.Users {
		role := userDomain.Role(r.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: user %s has unknown role %q", ErrInvalidSeed, r.ID, r.Role)
		}
		u := userDomain.User{
			ID:           r.ID,
			Name:         r.Name,
			Email:        r.Email,
			Role:         role,
			PasswordHash: r.PasswordHash,
			CreatedAt:    daysAgo(r.CreatedDaysAgo),
		}
		users[u.ID] = u
		data.Users = append(data.Users, u)
	}

	products := make(map[string]productDomain.Product, len(f.Products))
	for _, r := range f.Products {
		in := productDomain.ProductInput{
			Name: r.Name, Category: r.Category, Price: r.Price,
			Stock: r.Stock, ReorderLevel: r.ReorderLevel, Supplier: r.Supplier,
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("%w: product %s: %v", ErrInvalidSeed, r.ID, err)
		}
		if _, dup := products[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %s", ErrInvalidSeed, r.ID)
		}
		p := productDomain.Product{ID: r.ID, CreatedAt: daysAgo(r.AddedDaysAgo), UpdatedAt: daysAgo(r.AddedDaysAgo)}
		in.Apply(&p)
		products[p.ID] = p
		data.Products = append(data.Products, p)
	}

	for _, r := range f.Sales {
		sale := saleDomain.Sale{ID: r.ID, CreatedAt: daysAgo(r.DaysAgo), CashierID: r.CashierID}
		if u, ok := users[r.CashierID]; ok {
			sale.CashierName = u.Name
		}
		totals := make([]float64, 0, len(r.Items))
		for _, it := range r.Items {
			p, ok := products[it.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: sale %s references unknown product %s", ErrInvalidSeed, r.ID, it.ProductID)
			}
			line := saleDomain.SaleItem{
				ProductID: p.ID,
				Product:   p,
				Quantity:  it.Quantity,
				Price:     p.Price,
				Total:     money.LineTotal(p.Price, it.Quantity),
			}
			totals = append(totals, line.Total)
			sale.Items = append(sale.Items, line)
		}
		sale.TotalAmount = money.Sum(totals...)
		data.Sales = append(data.Sales, sale)
	}

	return data, nil
}
