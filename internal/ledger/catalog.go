package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
)

const (
	opAddProduct  = "add_product"
	opAddSupplier = "add_supplier"
)

func (s *service) AddProduct(ctx context.Context, name, imageURL string) (*models.Product, error) {
	input := addProductInput{Name: sanitize(name), ImageURL: sanitize(imageURL)}

	var created models.Product
	err := s.mutate(ctx, opAddProduct, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		created = models.Product{
			ID:        s.newID(),
			Name:      input.Name,
			ImageURL:  input.ImageURL,
			CreatedAt: s.now(),
			CreatedBy: actor.ID,
		}
		tx.products().put(created)
		s.logActivity(tx, actor, "Added new product", fmt.Sprintf("Added product: %s", created.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) AddSupplier(ctx context.Context, name, contactNumber string) (*models.Supplier, error) {
	input := addSupplierInput{Name: sanitize(name), ContactNumber: sanitize(contactNumber)}

	var created models.Supplier
	err := s.mutate(ctx, opAddSupplier, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		created = models.Supplier{
			ID:            s.newID(),
			Name:          input.Name,
			ContactNumber: input.ContactNumber,
			CreatedAt:     s.now(),
			CreatedBy:     actor.ID,
		}
		tx.suppliers().put(created)
		s.logActivity(tx, actor, "Added new supplier", fmt.Sprintf("Added supplier: %s", created.Name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *service) Products(ctx context.Context) []models.Product {
	var out []models.Product
	s.view(func(st *state) { out = st.products.values() })
	return out
}

func (s *service) Product(ctx context.Context, id string) (*models.Product, bool) {
	var (
		p  models.Product
		ok bool
	)
	s.view(func(st *state) { p, ok = st.products.get(id) })
	if !ok {
		return nil, false
	}
	return &p, true
}

func (s *service) Suppliers(ctx context.Context) []models.Supplier {
	var out []models.Supplier
	s.view(func(st *state) { out = st.suppliers.values() })
	return out
}

func (s *service) Supplier(ctx context.Context, id string) (*models.Supplier, bool) {
	var (
		sup models.Supplier
		ok  bool
	)
	s.view(func(st *state) { sup, ok = st.suppliers.get(id) })
	if !ok {
		return nil, false
	}
	return &sup, true
}

func productFor(st *state, id string) (models.Product, error) {
	p, ok := st.products.get(id)
	if !ok {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return p, nil
}
