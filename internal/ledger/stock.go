package ledger

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cellar-backend/internal/authz"
	"github.com/angelmondragon/cellar-backend/internal/dashboard"
	"github.com/angelmondragon/cellar-backend/internal/identity"
	"github.com/angelmondragon/cellar-backend/internal/notifications"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/angelmondragon/cellar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cellar-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	opAddStock       = "add_stock"
	opAddTransaction = "add_transaction"
)

func stockFor(st *state, productID string) (models.Stock, bool) {
	return st.stocks.find(func(s models.Stock) bool { return s.ProductID == productID })
}

// AddStock merges the delivery into the product's single stock record.
// Quantity is summed; price and dateAdded take the latest values while the
// expiry date and supplier of the first delivery are kept.
func (s *service) AddStock(ctx context.Context, input AddStockInput) (*models.Stock, error) {
	input.ProductID = sanitize(input.ProductID)
	input.SupplierID = sanitize(input.SupplierID)

	var result models.Stock
	err := s.mutate(ctx, opAddStock, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		product, err := productFor(&tx.next, input.ProductID)
		if err != nil {
			return err
		}
		supplier, ok := tx.next.suppliers.get(input.SupplierID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Supplier not found")
		}

		existing, found := stockFor(&tx.next, product.ID)
		wasLow := !found || existing.Quantity <= s.threshold

		if found {
			result = existing
			result.Quantity += input.Quantity
			result.Price = input.Price
			result.DateAdded = input.DateAdded
		} else {
			result = models.Stock{
				ID:              s.newID(),
				ProductID:       product.ID,
				ProductName:     product.Name,
				ProductImageURL: product.ImageURL,
				Quantity:        input.Quantity,
				Price:           input.Price,
				DateAdded:       input.DateAdded,
				ExpiryDate:      input.ExpiryDate,
				SupplierID:      supplier.ID,
				SupplierName:    supplier.Name,
				CreatedAt:       s.now(),
				CreatedBy:       actor.ID,
			}
		}
		tx.stocks().put(result)

		s.logActivity(tx, actor, "Added new stock", fmt.Sprintf("Added %d units of %s", input.Quantity, product.Name))

		if wasLow && result.Quantity > s.threshold {
			s.purgeLowStock(tx, product)
			s.notifyAll(tx, notifications.AdminRecipients(tx.next.users.values()), notifications.TitleReplenished,
				notifications.ReplenishedMessage(product.Name, result.Quantity), product.ID)
		}
		if result.Quantity <= s.threshold {
			s.lowStockAlert(tx, product, result.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AddTransaction records a sale and takes the units out of stock.
func (s *service) AddTransaction(ctx context.Context, productID string, quantity int, price decimal.Decimal) (*models.Transaction, error) {
	input := addTransactionInput{ProductID: sanitize(productID), Quantity: quantity, Price: price}

	var sale models.Transaction
	err := s.mutate(ctx, opAddTransaction, authz.PermissionAuthenticated, func(ctx context.Context, tx *txn, actor *identity.User) error {
		if err := validateInput(input); err != nil {
			return err
		}
		product, err := productFor(&tx.next, input.ProductID)
		if err != nil {
			return err
		}
		stock, found := stockFor(&tx.next, product.ID)
		if !found || stock.Quantity < input.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "Not enough stock available")
		}

		stock.Quantity -= input.Quantity
		tx.stocks().put(stock)

		sale = models.Transaction{
			ID:                s.newID(),
			ProductID:         product.ID,
			ProductName:       product.Name,
			Quantity:          input.Quantity,
			Price:             input.Price,
			TotalPrice:        input.Price.Mul(decimal.NewFromInt(int64(input.Quantity))),
			Date:              s.now(),
			CreatedBy:         actor.ID,
			CreatedByUsername: actor.Username,
			Type:              enums.TransactionTypeSale,
		}
		tx.transactions().put(sale)

		s.logActivity(tx, actor, "New transaction", fmt.Sprintf("Sold %d units of %s", input.Quantity, product.Name))

		switch {
		case stock.Quantity == 0:
			s.outOfStockAlert(tx, product)
		case stock.Quantity <= s.threshold:
			s.lowStockAlert(tx, product, stock.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *service) Stocks(ctx context.Context) []models.Stock {
	var out []models.Stock
	s.view(func(st *state) { out = st.stocks.values() })
	return out
}

func (s *service) StockByProductID(ctx context.Context, productID string) (*models.Stock, bool) {
	var (
		stock models.Stock
		ok    bool
	)
	s.view(func(st *state) { stock, ok = stockFor(st, productID) })
	if !ok {
		return nil, false
	}
	return &stock, true
}

func (s *service) Transactions(ctx context.Context) []models.Transaction {
	var out []models.Transaction
	s.view(func(st *state) { out = st.transactions.values() })
	return out
}

func (s *service) TodayTransactions(ctx context.Context) []models.Transaction {
	var out []models.Transaction
	s.view(func(st *state) { out = dashboard.TodayTransactions(st.transactions.values(), s.today()) })
	return out
}
