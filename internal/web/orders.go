package web

import (
	"net/http"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/google/uuid"
)

var orderFilters = []string{"", "approved", "readyforpickup", "cancelled"}

type ordersView struct {
	Orders  []model.OrderHeader
	Filters []string
}

func (a *App) orders(w http.ResponseWriter, r *http.Request) error {
	orders, err := a.api.Orders(r.Context(), a.token(r), r.URL.Query().Get("status"))
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "orders", "My orders", ordersView{Orders: orders, Filters: orderFilters})
	return nil
}

func (a *App) allOrders(w http.ResponseWriter, r *http.Request) error {
	orders, err := a.api.AllOrders(r.Context(), a.token(r), r.URL.Query().Get("status"))
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "orders", "All orders", ordersView{Orders: orders, Filters: orderFilters})
	return nil
}

type actionButton struct {
	Path  string
	Label string
}

type orderView struct {
	Order   *model.OrderHeader
	Actions []actionButton
}

func (a *App) orderDetail(w http.ResponseWriter, r *http.Request) error {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return a.orderMissing(w, r)
	}

	order, err := a.api.Order(r.Context(), a.token(r), id)
	if err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			return a.orderMissing(w, r)
		}
		return a.rejected(w, r, err, "/orders")
	}

	identity, _ := IdentityFrom(r.Context())
	a.render(w, r, http.StatusOK, "order", "Order "+order.ID.String(), orderView{
		Order:   order,
		Actions: actionsFor(order.Status, identity.IsAdmin()),
	})
	return nil
}

// actionsFor lists the status changes the visitor may apply next.
func actionsFor(status model.OrderStatus, admin bool) []actionButton {
	var actions []actionButton
	if admin {
		switch status {
		case model.StatusPending:
			actions = append(actions, actionButton{Path: "approve", Label: "Approve"})
		case model.StatusApproved:
			actions = append(actions, actionButton{Path: "ready", Label: "Ready for pickup"})
		case model.StatusReadyForPickup:
			actions = append(actions, actionButton{Path: "complete", Label: "Complete"})
		}
	}
	if status.CanTransitionTo(model.StatusCancelled) {
		actions = append(actions, actionButton{Path: "cancel", Label: "Cancel order"})
	}
	return actions
}

// orderAction applies action to the order named in the path and returns to
// its detail page.
func (a *App) orderAction(action, success string) appHandler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			return a.orderMissing(w, r)
		}
		back := "/orders/" + id.String()

		if _, err := a.api.OrderAction(r.Context(), a.token(r), action, id); err != nil {
			return a.rejected(w, r, err, back)
		}

		a.flashSuccess(r, success)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return nil
	}
}

func (a *App) orderMissing(w http.ResponseWriter, r *http.Request) error {
	a.flashError(r, "Order not found.")
	http.Redirect(w, r, "/orders", http.StatusSeeOther)
	return nil
}
