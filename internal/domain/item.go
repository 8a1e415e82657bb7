package domain

import "errors"

var (
	ErrItemNotLendable      = errors.New("item is not lendable")
	ErrInsufficientQuantity = errors.New("requested quantity exceeds remaining quantity")
)

// LowStockRatio marks an item as running low when remaining <= ratio * total.
const LowStockRatio = 0.2

type StockLabel string

const (
	StockAvailable   StockLabel = "available"
	StockLow         StockLabel = "low stock"
	StockOut         StockLabel = "out of stock"
	StockNotLendable StockLabel = "not lendable"
)

type Item struct {
	ID                int32  `json:"id"`
	OwnerID           int32  `json:"chuSoHuuId"`
	Name              string `json:"tenVatDung"`
	Description       string `json:"moTa"`
	CategoryID        int32  `json:"danhMucId"`
	TotalQuantity     int32  `json:"soLuongTong"`
	RemainingQuantity int32  `json:"soLuongCon"`
	Lendable          bool   `json:"coTheMuon"`
	Condition         string `json:"tinhTrang"`
	ImageURL          string `json:"hinhAnh"`
	Active            bool   `json:"trangThai"`
}

// Validate enforces the field rules shared by create and update,
// including 0 <= remaining <= total.
func (i *Item) Validate() error {
	if i.Name == "" {
		return &ValidationError{Field: "tenVatDung", Message: "item name is required"}
	}
	if i.TotalQuantity <= 0 {
		return &ValidationError{Field: "soLuongTong", Message: "total quantity must be greater than 0"}
	}
	if i.RemainingQuantity < 0 {
		return &ValidationError{Field: "soLuongCon", Message: "remaining quantity must not be negative"}
	}
	if i.RemainingQuantity > i.TotalQuantity {
		return &ValidationError{Field: "soLuongCon", Message: "remaining quantity must not exceed total quantity"}
	}
	return nil
}

// ValidateNew also requires the owner and category of a new item.
func (i *Item) ValidateNew() error {
	if i.OwnerID <= 0 {
		return &ValidationError{Field: "chuSoHuuId", Message: "owner could not be determined, please log in again"}
	}
	if i.CategoryID <= 0 {
		return &ValidationError{Field: "danhMucId", Message: "please choose a category"}
	}
	return i.Validate()
}

// CanLend reports whether quantity units may be borrowed right now.
func (i *Item) CanLend(quantity int32) error {
	if !i.Lendable {
		return ErrItemNotLendable
	}
	if quantity > i.RemainingQuantity {
		return ErrInsufficientQuantity
	}
	return nil
}

func (i *Item) StockLabel() StockLabel {
	switch {
	case !i.Lendable:
		return StockNotLendable
	case i.RemainingQuantity <= 0:
		return StockOut
	case float64(i.RemainingQuantity) <= float64(i.TotalQuantity)*LowStockRatio:
		return StockLow
	default:
		return StockAvailable
	}
}

// StockSummary backs the owner dashboard counters.
type StockSummary struct {
	Total      int
	InStock    int
	OutOfStock int
}

func SummarizeStock(items []Item) StockSummary {
	s := StockSummary{Total: len(items)}
	for _, it := range items {
		if it.RemainingQuantity > 0 {
			s.InStock++
		} else {
			s.OutOfStock++
		}
	}
	return s
}
