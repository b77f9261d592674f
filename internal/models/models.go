package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinPrice is the lowest valid product price.
var MinPrice = decimal.NewFromFloat(0.01)

// Product represents a catalog item with its available stock.
type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"nome" json:"nome"`
	Price     decimal.Decimal `db:"preco" json:"preco"`
	Stock     int             `db:"estoque" json:"estoque"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Cart represents one owner's cart. Items are loaded eagerly with
// their product data.
type Cart struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"usuario_id" json:"usuarioId"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Items []CartItem `db:"-" json:"itens"`
}

// CartItem is a (product, cart, quantity) reservation record. The
// product columns are joined in on load so a view never mixes a line
// with stale product data.
type CartItem struct {
	ID        string `db:"id" json:"id"`
	CartID    string `db:"carrinho_id" json:"carrinhoId"`
	ProductID string `db:"produto_id" json:"produtoId"`
	Quantity  int    `db:"quantidade" json:"quantidade"`

	ProductName  string          `db:"nome" json:"nome"`
	ProductPrice decimal.Decimal `db:"preco" json:"preco"`
}

// StockMovement is an append-only audit record of stock moving between
// the available pool and a cart reservation.
type StockMovement struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"produto_id" json:"produtoId"`
	CartID    string    `db:"carrinho_id" json:"carrinhoId"`
	Quantity  int       `db:"quantidade" json:"quantidade"`
	Type      string    `db:"tipo" json:"tipo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Movement types
const (
	MovementReserved = "reserva"
	MovementReleased = "devolucao"
)

// CartLineView is one formatted cart line with computed totals.
type CartLineView struct {
	ProductID string          `json:"produtoId"`
	Name      string          `json:"nome"`
	Quantity  int             `json:"quantidade"`
	UnitPrice decimal.Decimal `json:"precoUnitario"`
	LineTotal decimal.Decimal `json:"subtotal"`
}

// CartView is the read projection of a cart: per-line totals plus a
// cart-level total, computed on read and never stored.
type CartView struct {
	ID      string          `json:"id"`
	OwnerID string          `json:"usuarioId"`
	Items   []CartLineView  `json:"itens"`
	Total   decimal.Decimal `json:"total"`
}

// NewCartView computes the formatted projection of a cart.
func NewCartView(cart *Cart) *CartView {
	view := &CartView{
		ID:      cart.ID,
		OwnerID: cart.OwnerID,
		Items:   make([]CartLineView, 0, len(cart.Items)),
		Total:   decimal.Zero,
	}

	for _, item := range cart.Items {
		lineTotal := item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartLineView{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.ProductPrice,
			LineTotal: lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}

	return view
}
