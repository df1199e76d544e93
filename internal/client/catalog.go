package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"shopfront/internal/model"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Catalogue administration. Every call here needs an admin token.

func (c *Client) Category(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, _, err := call[*model.Category](ctx, c, request{method: http.MethodGet, path: "/api/categories/" + id.String()})
	return category, err
}

func (c *Client) CreateCategory(ctx context.Context, token string, req *model.CategoryRequest) (*model.Category, error) {
	category, _, err := call[*model.Category](ctx, c, request{method: http.MethodPost, path: "/api/categories", token: token, body: req})
	return category, err
}

func (c *Client) UpdateCategory(ctx context.Context, token string, id uuid.UUID, req *model.CategoryRequest) (*model.Category, error) {
	category, _, err := call[*model.Category](ctx, c, request{
		method: http.MethodPut,
		path:   "/api/categories/" + id.String(),
		token:  token,
		body:   req,
	})
	return category, err
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id uuid.UUID) error {
	_, _, err := call[none](ctx, c, request{method: http.MethodDelete, path: "/api/categories/" + id.String(), token: token})
	return err
}

func (c *Client) Coupons(ctx context.Context, token string) ([]model.Coupon, error) {
	coupons, _, err := call[[]model.Coupon](ctx, c, request{method: http.MethodGet, path: "/api/coupons", token: token})
	return coupons, err
}

func (c *Client) Coupon(ctx context.Context, token string, id uuid.UUID) (*model.Coupon, error) {
	coupon, _, err := call[*model.Coupon](ctx, c, request{method: http.MethodGet, path: "/api/coupons/" + id.String(), token: token})
	return coupon, err
}

func (c *Client) CreateCoupon(ctx context.Context, token string, req *model.CouponRequest) (*model.Coupon, error) {
	coupon, _, err := call[*model.Coupon](ctx, c, request{method: http.MethodPost, path: "/api/coupons", token: token, body: req})
	return coupon, err
}

func (c *Client) UpdateCoupon(ctx context.Context, token string, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	coupon, _, err := call[*model.Coupon](ctx, c, request{
		method: http.MethodPut,
		path:   "/api/coupons/" + id.String(),
		token:  token,
		body:   req,
	})
	return coupon, err
}

func (c *Client) DeleteCoupon(ctx context.Context, token string, id uuid.UUID) error {
	_, _, err := call[none](ctx, c, request{method: http.MethodDelete, path: "/api/coupons/" + id.String(), token: token})
	return err
}

// CreateProduct uploads a product as multipart form data. image may be nil.
func (c *Client) CreateProduct(ctx context.Context, token string, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	body, contentType, err := productForm(in, image)
	if err != nil {
		return nil, err
	}
	product, _, err := call[*model.Product](ctx, c, request{
		method:      http.MethodPost,
		path:        "/api/products",
		token:       token,
		raw:         body,
		contentType: contentType,
	})
	return product, err
}

// UpdateProduct replaces a product. A nil image keeps the current one.
func (c *Client) UpdateProduct(ctx context.Context, token string, id uuid.UUID, in *model.ProductInput, image *model.ImageUpload) (*model.Product, error) {
	body, contentType, err := productForm(in, image)
	if err != nil {
		return nil, err
	}
	product, _, err := call[*model.Product](ctx, c, request{
		method:      http.MethodPut,
		path:        "/api/products/" + id.String(),
		token:       token,
		raw:         body,
		contentType: contentType,
	})
	return product, err
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id uuid.UUID) error {
	_, _, err := call[none](ctx, c, request{method: http.MethodDelete, path: "/api/products/" + id.String(), token: token})
	return err
}

func productForm(in *model.ProductInput, image *model.ImageUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", in.Name},
		{"description", in.Description},
		{"price", in.Price.String()},
		{"categoryId", in.CategoryID.String()},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", f[0])
		}
	}

	if image != nil {
		part, err := w.CreateFormFile("image", image.FileName)
		if err != nil {
			return nil, "", errors.Wrap(err, "create image part")
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return nil, "", errors.Wrap(err, "copy image")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart form")
	}
	return &buf, w.FormDataContentType(), nil
}
