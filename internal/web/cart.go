package web

import (
	"net/http"
	"strconv"
	"strings"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/google/uuid"
)

func (a *App) cart(w http.ResponseWriter, r *http.Request) error {
	cart, err := a.api.Cart(r.Context(), a.token(r))
	if err != nil {
		if !client.IsStatus(err, http.StatusNotFound) {
			return err
		}
		cart = &model.Cart{}
	}
	a.render(w, r, http.StatusOK, "cart", "Your cart", cart)
	return nil
}

func (a *App) addToCart(w http.ResponseWriter, r *http.Request) error {
	productID, err := uuid.Parse(r.PostFormValue("productId"))
	if err != nil {
		a.flashError(r, "Product not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}
	count := formCount(r, 1)
	back := "/products/" + productID.String()

	if _, err := a.api.AddToCart(r.Context(), a.token(r), productID, count); err != nil {
		return a.rejected(w, r, err, back)
	}

	a.flashSuccess(r, "Item added to cart.")
	http.Redirect(w, r, back, http.StatusSeeOther)
	return nil
}

func (a *App) removeCartItem(w http.ResponseWriter, r *http.Request) error {
	detailID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return a.cartMissing(w, r)
	}

	if err := a.api.RemoveCartItem(r.Context(), a.token(r), detailID); err != nil {
		return a.rejected(w, r, err, "/cart")
	}

	a.flashSuccess(r, "Item removed from cart.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
	return nil
}

// updateCartItem sets a line's quantity. A quantity below one removes it.
func (a *App) updateCartItem(w http.ResponseWriter, r *http.Request) error {
	detailID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return a.cartMissing(w, r)
	}

	count := formCount(r, 0)
	if count < model.MinCartQuantity {
		return a.removeCartItem(w, r)
	}

	if _, err := a.api.UpdateCartItem(r.Context(), a.token(r), detailID, count); err != nil {
		return a.rejected(w, r, err, "/cart")
	}

	a.flashSuccess(r, "Cart updated.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
	return nil
}

func (a *App) applyCoupon(w http.ResponseWriter, r *http.Request) error {
	code := strings.TrimSpace(r.PostFormValue("couponCode"))
	if code == "" {
		a.flashError(r, "Enter a coupon code.")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return nil
	}

	cart, err := a.api.ApplyCoupon(r.Context(), a.token(r), code)
	if err != nil {
		return a.rejected(w, r, err, "/cart")
	}

	if cart.Header.Discount.IsZero() {
		a.flashSuccess(r, "Coupon applied. Your cart does not meet its minimum amount yet.")
	} else {
		a.flashSuccess(r, "Coupon applied.")
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
	return nil
}

func (a *App) removeCoupon(w http.ResponseWriter, r *http.Request) error {
	if _, err := a.api.RemoveCoupon(r.Context(), a.token(r)); err != nil {
		return a.rejected(w, r, err, "/cart")
	}

	a.flashSuccess(r, "Coupon removed.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
	return nil
}

func (a *App) clearCart(w http.ResponseWriter, r *http.Request) error {
	if err := a.api.ClearCart(r.Context(), a.token(r)); err != nil {
		return a.rejected(w, r, err, "/cart")
	}

	a.flashSuccess(r, "Cart cleared.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
	return nil
}

func (a *App) checkout(w http.ResponseWriter, r *http.Request) error {
	req := &model.CreateOrderRequest{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Phone: strings.TrimSpace(r.PostFormValue("phone")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}

	order, err := a.api.CreateOrder(r.Context(), a.token(r), req)
	if err != nil {
		return a.rejected(w, r, err, "/cart")
	}

	a.logger.Info().Str("order_id", order.ID.String()).Msg("order placed")
	a.flashSuccess(r, "Your order has been placed.")
	http.Redirect(w, r, "/orders/"+order.ID.String(), http.StatusSeeOther)
	return nil
}

func (a *App) cartMissing(w http.ResponseWriter, r *http.Request) error {
	a.flashError(r, "Cart item not found.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
	return nil
}

// formCount reads the count field, falling back to def when it is absent
// or not a number.
func formCount(r *http.Request, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("count")))
	if err != nil {
		return def
	}
	return n
}
