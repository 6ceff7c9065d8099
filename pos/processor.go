package pos

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
)

const (
	// MaxLineItems bounds the number of line items per sale request.
	MaxLineItems = 50
	// MaxItemQuantity bounds the quantity of a single line item.
	MaxItemQuantity = 100
)

type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SaleRequest struct {
	Customer CustomerInfo `json:"customer"`
	Items    []LineItem   `json:"items"`
}

type SaleResult struct {
	SaleID     string          `json:"sale_id"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// Processor runs the sale transaction: customer upsert, stock validation,
// snapshot pricing, atomic decrement and sale persistence. All effects of
// one request commit together or roll back together.
type Processor struct {
	store Store
	log   zerolog.Logger
}

func NewProcessor(store Store, log zerolog.Logger) *Processor {
	return &Processor{store: store, log: log}
}

// ProcessSale validates and persists one sale. Business refusals come back
// as *Rejection; anything else is an infrastructure failure and the caller
// gets a wrapped error with no partial state left behind.
func (p *Processor) ProcessSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	if rej := validateRequest(req); rej != nil {
		return nil, rej
	}

	var result *SaleResult
	err := p.store.RunInTransaction(ctx, func(tx Tx) error {
		customer, err := p.resolveCustomer(ctx, tx, req.Customer)
		if err != nil {
			return err
		}

		products, rej, err := p.lockAndValidate(ctx, tx, req.Items)
		if rej != nil {
			return rej
		}
		if err != nil {
			return err
		}

		saleID, err := tx.InsertSale(ctx, customer.ID, decimal.Zero)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}

		total := decimal.Zero
		for _, item := range req.Items {
			price := products[item.ProductID].Price
			subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)

			err := tx.InsertSaleItem(ctx, models.SaleItem{
				SaleID:    saleID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
			if err != nil {
				return fmt.Errorf("insert sale item %s: %w", item.ProductID, err)
			}

			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, ErrStockConflict) {
					return rejectf(CodeConflict, "stock for product %s changed during processing", item.ProductID)
				}
				return fmt.Errorf("decrement stock %s: %w", item.ProductID, err)
			}

			total = total.Add(subtotal)
		}

		saleCode := FormatSaleCode(saleID)
		if err := tx.FinalizeSale(ctx, saleID, saleCode, total); err != nil {
			return fmt.Errorf("finalize sale: %w", err)
		}

		result = &SaleResult{SaleID: saleCode, CustomerID: customer.ID, Total: total}
		return nil
	})

	if err != nil {
		var rej *Rejection
		if errors.As(err, &rej) {
			p.log.Info().
				Str("code", string(rej.Code)).
				Str("email", req.Customer.Email).
				Msg("sale rejected")
			return nil, rej
		}
		if errors.Is(err, ErrTxConflict) {
			p.log.Warn().Str("email", req.Customer.Email).Msg("sale aborted on transaction conflict")
			return nil, rejectf(CodeConflict, "sale could not be processed due to a concurrent update, please retry")
		}
		p.log.Error().Err(err).Str("email", req.Customer.Email).Msg("sale processing failed")
		return nil, fmt.Errorf("process sale: %w", err)
	}

	p.log.Info().
		Str("sale_id", result.SaleID).
		Int64("customer_id", result.CustomerID).
		Str("total", result.Total.StringFixed(2)).
		Msg("sale committed")
	return result, nil
}

// resolveCustomer treats the email as the identity and the name fields as
// mutable display data. The upsert is atomic so two first purchases under
// the same address cannot race into duplicate rows.
func (p *Processor) resolveCustomer(ctx context.Context, tx Tx, info CustomerInfo) (*models.Customer, error) {
	existing, err := tx.FindCustomerByEmail(ctx, info.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if existing == nil {
		p.log.Debug().Str("email", info.Email).Msg("first purchase, creating customer")
	}

	customer, err := tx.UpsertCustomer(ctx, info.FirstName, info.LastName, info.Email)
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}
	return customer, nil
}

// lockAndValidate locks every referenced product and checks existence,
// active flag and stock against the aggregate requested quantity, before
// anything is written. Locks are taken in ascending product id order so two
// multi-item sales cannot deadlock each other; reporting stays in input
// order.
func (p *Processor) lockAndValidate(ctx context.Context, tx Tx, items []LineItem) (map[string]*models.Product, *Rejection, error) {
	requested := make(map[string]int)
	for _, item := range items {
		requested[item.ProductID] += item.Quantity
	}

	ids := make([]string, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products := make(map[string]*models.Product, len(ids))
	for _, id := range ids {
		prod, err := tx.GetProductForUpdate(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("lock product %s: %w", id, err)
		}
		products[id] = prod
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true

		prod, ok := products[item.ProductID]
		if !ok {
			rej := rejectf(CodeProductNotFound, "product %s does not exist", item.ProductID)
			rej.ProductID = item.ProductID
			return nil, rej, nil
		}
		if !prod.IsActive {
			rej := rejectf(CodeProductInactive, "product %s is no longer available", item.ProductID)
			rej.ProductID = item.ProductID
			return nil, rej, nil
		}
		if want := requested[item.ProductID]; want > prod.Stock {
			rej := rejectf(CodeInsufficientStock, "product %s has %d in stock, %d requested", item.ProductID, prod.Stock, want)
			rej.ProductID = item.ProductID
			rej.Available = prod.Stock
			rej.Requested = want
			return nil, rej, nil
		}
	}

	return products, nil, nil
}

func validateRequest(req SaleRequest) *Rejection {
	if len(req.Items) == 0 {
		return rejectf(CodeInvalidRequest, "at least one line item is required")
	}
	if len(req.Items) > MaxLineItems {
		return rejectf(CodeInvalidRequest, "too many line items: %d (max %d)", len(req.Items), MaxLineItems)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return rejectf(CodeInvalidRequest, "item %d: product_id is required", i+1)
		}
		if item.Quantity < 1 || item.Quantity > MaxItemQuantity {
			return rejectf(CodeInvalidRequest, "item %d: quantity must be between 1 and %d", i+1, MaxItemQuantity)
		}
	}
	if _, err := mail.ParseAddress(req.Customer.Email); err != nil {
		return rejectf(CodeInvalidRequest, "a valid customer email is required")
	}
	return nil
}

// FormatSaleCode derives the public sale identifier from the row id.
func FormatSaleCode(saleID int64) string {
	return fmt.Sprintf("SALE%06d", saleID)
}
