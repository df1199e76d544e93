package web

import (
	"net/http"
	"strings"

	"shopfront/internal/client"
	"shopfront/internal/model"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxImageForm = 10 << 20

// pathUUID parses the {id} segment. A malformed id is treated like a
// missing record: flash and go back to list.
func (a *App) pathUUID(w http.ResponseWriter, r *http.Request, list, missing string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		a.flashError(r, missing)
		http.Redirect(w, r, list, http.StatusSeeOther)
		return uuid.Nil, false
	}
	return id, true
}

// notFound flashes missing and redirects to list when err is a 404.
func (a *App) notFound(w http.ResponseWriter, r *http.Request, err error, list, missing string) error {
	if client.IsStatus(err, http.StatusNotFound) {
		a.flashError(r, missing)
		http.Redirect(w, r, list, http.StatusSeeOther)
		return nil
	}
	return err
}

// Categories

const categoryMissing = "Category not found."

func categoryRequest(r *http.Request) *model.CategoryRequest {
	return &model.CategoryRequest{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}
}

func (a *App) adminCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := a.api.Categories(r.Context())
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "admin_categories", "Categories", categories)
	return nil
}

func (a *App) createCategory(w http.ResponseWriter, r *http.Request) error {
	if _, err := a.api.CreateCategory(r.Context(), a.token(r), categoryRequest(r)); err != nil {
		return a.rejected(w, r, err, "/admin/categories")
	}
	a.flashSuccess(r, "Category created.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
	return nil
}

func (a *App) editCategory(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/categories", categoryMissing)
	if !ok {
		return nil
	}
	category, err := a.api.Category(r.Context(), id)
	if err != nil {
		return a.notFound(w, r, err, "/admin/categories", categoryMissing)
	}
	a.render(w, r, http.StatusOK, "admin_category", "Edit category", category)
	return nil
}

func (a *App) updateCategory(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/categories", categoryMissing)
	if !ok {
		return nil
	}
	if _, err := a.api.UpdateCategory(r.Context(), a.token(r), id, categoryRequest(r)); err != nil {
		return a.rejected(w, r, err, "/admin/categories/"+id.String()+"/edit")
	}
	a.flashSuccess(r, "Category updated.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
	return nil
}

func (a *App) deleteCategory(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/categories", categoryMissing)
	if !ok {
		return nil
	}
	if err := a.api.DeleteCategory(r.Context(), a.token(r), id); err != nil {
		return a.rejected(w, r, err, "/admin/categories")
	}
	a.flashSuccess(r, "Category deleted.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
	return nil
}

// Coupons

const couponMissing = "Coupon not found."

// couponRequest reads the coupon form. Unparseable amounts are reported
// together so the admin can fix them in one go.
func couponRequest(r *http.Request) (*model.CouponRequest, string) {
	req := &model.CouponRequest{Code: strings.TrimSpace(r.PostFormValue("couponCode"))}

	var problems []string
	discount, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("discountAmount")))
	if err != nil {
		problems = append(problems, "Discount must be a number.")
	}
	minimum, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("minimumAmount")))
	if err != nil {
		problems = append(problems, "Minimum amount must be a number.")
	}
	req.DiscountAmount, req.MinimumAmount = discount, minimum
	return req, strings.Join(problems, " ")
}

func (a *App) adminCoupons(w http.ResponseWriter, r *http.Request) error {
	coupons, err := a.api.Coupons(r.Context(), a.token(r))
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "admin_coupons", "Coupons", coupons)
	return nil
}

func (a *App) createCoupon(w http.ResponseWriter, r *http.Request) error {
	req, problem := couponRequest(r)
	if problem != "" {
		a.flashError(r, problem)
		http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
		return nil
	}
	if _, err := a.api.CreateCoupon(r.Context(), a.token(r), req); err != nil {
		return a.rejected(w, r, err, "/admin/coupons")
	}
	a.flashSuccess(r, "Coupon created.")
	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
	return nil
}

func (a *App) editCoupon(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/coupons", couponMissing)
	if !ok {
		return nil
	}
	coupon, err := a.api.Coupon(r.Context(), a.token(r), id)
	if err != nil {
		return a.notFound(w, r, err, "/admin/coupons", couponMissing)
	}
	a.render(w, r, http.StatusOK, "admin_coupon", "Edit coupon", coupon)
	return nil
}

func (a *App) updateCoupon(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/coupons", couponMissing)
	if !ok {
		return nil
	}
	back := "/admin/coupons/" + id.String() + "/edit"

	req, problem := couponRequest(r)
	if problem != "" {
		a.flashError(r, problem)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return nil
	}
	if _, err := a.api.UpdateCoupon(r.Context(), a.token(r), id, req); err != nil {
		return a.rejected(w, r, err, back)
	}
	a.flashSuccess(r, "Coupon updated.")
	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
	return nil
}

func (a *App) deleteCoupon(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/coupons", couponMissing)
	if !ok {
		return nil
	}
	if err := a.api.DeleteCoupon(r.Context(), a.token(r), id); err != nil {
		return a.rejected(w, r, err, "/admin/coupons")
	}
	a.flashSuccess(r, "Coupon deleted.")
	http.Redirect(w, r, "/admin/coupons", http.StatusSeeOther)
	return nil
}

// Products

const productMissing = "Product not found."

type productFormView struct {
	Action     string
	Product    *model.Product
	Categories []model.Category
	CategoryID string
}

func (a *App) adminProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := a.api.Products(r.Context(), "")
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "admin_products", "Products", products)
	return nil
}

func (a *App) newProduct(w http.ResponseWriter, r *http.Request) error {
	categories, err := a.api.Categories(r.Context())
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "admin_product", "New product", productFormView{
		Action:     "/admin/products",
		Categories: categories,
	})
	return nil
}

func (a *App) editProduct(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/products", productMissing)
	if !ok {
		return nil
	}
	product, err := a.api.Product(r.Context(), id)
	if err != nil {
		return a.notFound(w, r, err, "/admin/products", productMissing)
	}
	categories, err := a.api.Categories(r.Context())
	if err != nil {
		return err
	}
	a.render(w, r, http.StatusOK, "admin_product", "Edit product", productFormView{
		Action:     "/admin/products/" + id.String(),
		Product:    product,
		Categories: categories,
		CategoryID: product.CategoryID.String(),
	})
	return nil
}

// productForm reads the multipart product form. The returned cleanup must be
// called once the upload has been forwarded.
func productForm(w http.ResponseWriter, r *http.Request) (*model.ProductInput, *model.ImageUpload, func(), string) {
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageForm)
	if err := r.ParseMultipartForm(maxImageForm); err != nil {
		return nil, nil, cleanup, "The product form could not be read."
	}
	cleanup = func() { _ = r.MultipartForm.RemoveAll() }

	in := &model.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	var problems []string
	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		problems = append(problems, "Price must be a number.")
	}
	in.Price = price
	categoryID, err := uuid.Parse(r.FormValue("categoryId"))
	if err != nil {
		problems = append(problems, "Choose a category.")
	}
	in.CategoryID = categoryID
	if len(problems) > 0 {
		return nil, nil, cleanup, strings.Join(problems, " ")
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || (err == nil && header.Size == 0) {
		if file != nil {
			file.Close()
		}
		return in, nil, cleanup, ""
	}
	if err != nil {
		return nil, nil, cleanup, "The image could not be read."
	}
	return in, &model.ImageUpload{FileName: header.Filename, Content: file}, func() {
		file.Close()
		cleanup()
	}, ""
}

func (a *App) createProduct(w http.ResponseWriter, r *http.Request) error {
	in, image, cleanup, problem := productForm(w, r)
	defer cleanup()
	if problem != "" {
		a.flashError(r, problem)
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return nil
	}

	product, err := a.api.CreateProduct(r.Context(), a.token(r), in, image)
	if err != nil {
		return a.rejected(w, r, err, "/admin/products/new")
	}
	a.flashSuccess(r, "Product "+product.Name+" created.")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
	return nil
}

func (a *App) updateProduct(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/products", productMissing)
	if !ok {
		return nil
	}
	back := "/admin/products/" + id.String() + "/edit"

	in, image, cleanup, problem := productForm(w, r)
	defer cleanup()
	if problem != "" {
		a.flashError(r, problem)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return nil
	}

	if _, err := a.api.UpdateProduct(r.Context(), a.token(r), id, in, image); err != nil {
		return a.rejected(w, r, err, back)
	}
	a.flashSuccess(r, "Product updated.")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
	return nil
}

func (a *App) deleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, ok := a.pathUUID(w, r, "/admin/products", productMissing)
	if !ok {
		return nil
	}
	if err := a.api.DeleteProduct(r.Context(), a.token(r), id); err != nil {
		return a.rejected(w, r, err, "/admin/products")
	}
	a.flashSuccess(r, "Product deleted.")
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
	return nil
}
