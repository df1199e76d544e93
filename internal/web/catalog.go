package web

import (
	"net/http"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/google/uuid"
)

type homeView struct {
	Products   []model.Product
	Categories []model.Category
	Category   string
	ImageBase  string
}

func (a *App) home(w http.ResponseWriter, r *http.Request) error {
	category := r.URL.Query().Get("category")

	products, err := a.api.Products(r.Context(), category)
	if err != nil {
		return err
	}
	categories, err := a.api.Categories(r.Context())
	if err != nil {
		return err
	}

	a.render(w, r, http.StatusOK, "home", "Products", homeView{
		Products:   products,
		Categories: categories,
		Category:   category,
		ImageBase:  a.imageBase,
	})
	return nil
}

type productView struct {
	Product   *model.Product
	ImageBase string
}

func (a *App) productDetail(w http.ResponseWriter, r *http.Request) error {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.flashError(r, "Product not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}

	product, err := a.api.Product(r.Context(), id)
	if err != nil {
		if client.IsStatus(err, http.StatusNotFound) {
			a.flashError(r, "Product not found.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return nil
		}
		return err
	}

	a.render(w, r, http.StatusOK, "product", product.Name, productView{Product: product, ImageBase: a.imageBase})
	return nil
}

func (a *App) errorPage(w http.ResponseWriter, r *http.Request) {
	msg := r.URL.Query().Get("message")
	if msg == "" {
		msg = "Something went wrong."
	}
	a.render(w, r, http.StatusOK, "error", "Error", msg)
}
