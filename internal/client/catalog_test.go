package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"shopfront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/categories", r.URL.Path)
		assert.Equal(t, "Bearer admin", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.CategoryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Toys", req.Name)

		writeEnvelope(w, http.StatusCreated, model.Response[*model.Category]{
			Success: true,
			Data:    &model.Category{ID: uuid.New(), Name: req.Name},
		})
	})

	category, err := c.CreateCategory(context.Background(), "admin", &model.CategoryRequest{Name: "Toys"})
	require.NoError(t, err)
	assert.Equal(t, "Toys", category.Name)
}

func TestClient_CreateProduct(t *testing.T) {
	categoryID := uuid.New()

	tests := []struct {
		name      string
		image     *model.ImageUpload
		wantImage string
	}{
		{name: "with image", image: &model.ImageUpload{FileName: "pen.png", Content: strings.NewReader("png-bytes")}, wantImage: "png-bytes"},
		{name: "without image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer admin", r.Header.Get("Authorization"))
				assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))

				require.NoError(t, r.ParseMultipartForm(1<<20))
				assert.Equal(t, "Pen", r.FormValue("name"))
				assert.Equal(t, "2.5", r.FormValue("price"))
				assert.Equal(t, categoryID.String(), r.FormValue("categoryId"))

				file, header, err := r.FormFile("image")
				if tt.image == nil {
					assert.ErrorIs(t, err, http.ErrMissingFile)
				} else {
					require.NoError(t, err)
					defer file.Close()
					assert.Equal(t, "pen.png", header.Filename)
					b, err := io.ReadAll(file)
					require.NoError(t, err)
					assert.Equal(t, tt.wantImage, string(b))
				}

				writeEnvelope(w, http.StatusCreated, model.Response[*model.Product]{
					Success: true,
					Data:    &model.Product{ID: uuid.New(), Name: "Pen"},
				})
			})

			product, err := c.CreateProduct(context.Background(), "admin", &model.ProductInput{
				Name:       "Pen",
				Price:      decimal.RequireFromString("2.50"),
				CategoryID: categoryID,
			}, tt.image)
			require.NoError(t, err)
			assert.Equal(t, "Pen", product.Name)
		})
	}
}

func TestClient_DeleteCoupon(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/coupons/"+id.String(), r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer admin" {
			writeEnvelope(w, http.StatusForbidden, model.Response[any]{Message: "forbidden"})
			return
		}
		writeEnvelope(w, http.StatusOK, model.Response[any]{Success: true, Message: "coupon deleted"})
	})

	require.NoError(t, c.DeleteCoupon(context.Background(), "admin", id))

	err := c.DeleteCoupon(context.Background(), "customer", id)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusForbidden))
}
