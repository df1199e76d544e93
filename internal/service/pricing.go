package service

import (
	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// priceCart joins cart lines with live product data and computes the totals.
// Lines whose product is missing from products are dropped. A nil coupon, or
// one the subtotal does not reach, gives no discount.
func priceCart(header model.CartHeader, details []model.CartDetails, products []model.Product, coupon *model.Coupon) *model.Cart {
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	priced := make([]model.CartDetails, 0, len(details))
	subtotal := decimal.Zero
	for _, d := range details {
		p, ok := byID[d.ProductID]
		if !ok {
			continue
		}
		d.Product = p
		d.LinePrice = p.Price.Mul(decimal.NewFromInt(int64(d.Count)))
		subtotal = subtotal.Add(d.LinePrice)
		priced = append(priced, d)
	}

	header.SubTotal = subtotal
	header.Discount = decimal.Zero
	header.CartTotal = subtotal
	if coupon != nil && coupon.IsEligible(subtotal) {
		header.Discount = coupon.DiscountAmount
		header.CartTotal = subtotal.Sub(coupon.DiscountAmount)
	}

	return &model.Cart{Header: header, Details: priced}
}

func productIDs(details []model.CartDetails) []uuid.UUID {
	ids := make([]uuid.UUID, len(details))
	for i, d := range details {
		ids[i] = d.ProductID
	}
	return ids
}
