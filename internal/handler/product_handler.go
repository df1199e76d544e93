package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"shopfront/internal/model"
	"shopfront/internal/service"
	"shopfront/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxUploadSize = 10 << 20

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	images  storage.ImageStore
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, images storage.ImageStore, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		images:  images,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products[?category=].
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", products)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "", product)
}

// Create handles multipart POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, image, cleanup, err := h.parseForm(w, r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	defer cleanup()

	product, err := h.service.Create(r.Context(), in, image)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusCreated, "Product created successfully", product)
}

// Update handles multipart PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	in, image, cleanup, err := h.parseForm(w, r)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	defer cleanup()

	product, err := h.service.Update(r.Context(), id, in, image)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond(w, http.StatusOK, "Product updated successfully", product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleError(w, r, err, h.logger)
		return
	}
	respond[any](w, http.StatusOK, "Product deleted successfully", nil)
}

// Image handles GET /images/products/{name}.
func (h *ProductHandler) Image(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rc, err := h.images.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			writeError(w, http.StatusNotFound, "image not found", nil)
			return
		}
		handleError(w, r, err, h.logger)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn().Err(err).Str("image", name).Msg("failed to stream image")
	}
}

// parseForm reads the product fields and the optional image file.
func (h *ProductHandler) parseForm(w http.ResponseWriter, r *http.Request) (*model.ProductInput, *model.ImageUpload, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, noop, model.NewValidationError("invalid multipart form")
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}

	var details []string
	in := &model.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		details = append(details, "price must be a number")
	}
	in.Price = price

	categoryID, err := uuid.Parse(r.FormValue("categoryId"))
	if err != nil {
		details = append(details, "categoryId must be a valid id")
	}
	in.CategoryID = categoryID

	if len(details) > 0 {
		return nil, nil, cleanup, model.NewValidationError(details...)
	}
	if err := validateStruct(in); err != nil {
		return nil, nil, cleanup, err
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, cleanup, nil
	}
	if err != nil {
		return nil, nil, cleanup, model.NewValidationError("invalid image upload")
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		file.Close()
		return nil, nil, cleanup, model.NewValidationError("image must be a jpg, png, gif or webp file")
	}

	return in, &model.ImageUpload{FileName: header.Filename, Content: file}, func() {
		file.Close()
		cleanup()
	}, nil
}
