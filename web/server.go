// Package web serves the localhost JSON API for imports, the reward catalog,
// and partner balances; it intentionally has no auth in this mode.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopontos/catalog"
	"gopontos/config"
	"gopontos/ledger"
	"gopontos/spreadsheet"
	"gopontos/storage"

	"github.com/google/uuid"
)

type Server struct {
	store  *storage.SQLiteStore
	ledger *ledger.Service
	cfg    config.Config
	mux    *http.ServeMux
}

type categoryRequest struct {
	Name string `json:"name"`
}

type productRequest struct {
	CategoryID  int64  `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type priceRequest struct {
	Points float64 `json:"points"`
}

type redemptionRequest struct {
	CNPJ      string `json:"cnpj"`
	ProductID int64  `json:"productId"`
}

type redemptionResponse struct {
	ID        int64   `json:"id"`
	CNPJ      string  `json:"cnpj"`
	ProductID int64   `json:"productId"`
	Points    float64 `json:"points"`
}

type importResponse struct {
	TotalRows     int                        `json:"totalRows"`
	ValidRows     int                        `json:"validRows"`
	ErrorRows     int                        `json:"errorRows"`
	RowsPersisted int                        `json:"rowsPersisted"`
	Rows          []spreadsheet.ProcessedRow `json:"rows"`
}

func NewServer(store *storage.SQLiteStore, ledgerService *ledger.Service, cfg config.Config) http.Handler {
	server := &Server{
		store:  store,
		ledger: ledgerService,
		cfg:    cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/import", server.handleAPIImport)

	mux.HandleFunc("GET /api/categories", server.handleCategoryList)
	mux.HandleFunc("POST /api/categories", server.handleCategoryCreate)
	mux.HandleFunc("PUT /api/categories/{id}", server.handleCategoryUpdate)
	mux.HandleFunc("DELETE /api/categories/{id}", server.handleCategoryDelete)

	mux.HandleFunc("GET /api/products", server.handleProductList)
	mux.HandleFunc("POST /api/products", server.handleProductCreate)
	mux.HandleFunc("GET /api/products/{id}", server.handleProductGet)
	mux.HandleFunc("PUT /api/products/{id}", server.handleProductUpdate)
	mux.HandleFunc("DELETE /api/products/{id}", server.handleProductDelete)

	mux.HandleFunc("GET /api/products/{id}/price", server.handlePriceGet)
	mux.HandleFunc("POST /api/products/{id}/prices", server.handlePriceCreate)

	mux.HandleFunc("GET /api/products/{id}/images", server.handleProductImageList)
	mux.HandleFunc("POST /api/products/{id}/images", server.handleProductImageUpload)
	mux.HandleFunc("DELETE /api/images/{id}", server.handleProductImageDelete)

	mux.HandleFunc("GET /api/products/{id}/sizecharts", server.handleSizeChartList)
	mux.HandleFunc("POST /api/products/{id}/sizecharts", server.handleSizeChartUpload)
	mux.HandleFunc("DELETE /api/sizecharts/{id}", server.handleSizeChartDelete)

	mux.HandleFunc("GET /api/banners", server.handleBannerList)
	mux.HandleFunc("POST /api/banners", server.handleBannerUpload)
	mux.HandleFunc("DELETE /api/banners/{id}", server.handleBannerDelete)

	mux.HandleFunc("GET /api/balance/{cnpj}", server.handleBalance)
	mux.HandleFunc("GET /api/redemptions/{cnpj}", server.handleRedemptionList)
	mux.HandleFunc("POST /api/redemptions", server.handleRedemptionCreate)

	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Media.Dir))))
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxSizeBytes())
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxSizeBytes()); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !extensionAllowed(header.Filename, s.cfg.Upload.SpreadsheetExtensions) {
		http.Error(w, fmt.Sprintf("unsupported spreadsheet type %q", filepath.Ext(header.Filename)), http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		http.Error(w, fmt.Sprintf("create temp upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		http.Error(w, fmt.Sprintf("close upload temp file: %v", err), http.StatusInternalServerError)
		return
	}

	result, err := spreadsheet.Process(tmpPath, spreadsheet.Options{})
	if err != nil {
		// Fatal pipeline failure: nothing was imported.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sources := ledger.SourcesFromResult(result, filepath.Base(header.Filename))
	inserted, err := s.store.InsertSources(sources)
	if err != nil {
		http.Error(w, fmt.Sprintf("persist imported rows: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		TotalRows:     result.TotalRows,
		ValidRows:     result.ValidRows,
		ErrorRows:     result.ErrorRows,
		RowsPersisted: inserted,
		Rows:          result.Rows,
	})
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories()
	if err != nil {
		http.Error(w, fmt.Sprintf("list categories: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "category name is required", http.StatusBadRequest)
		return
	}

	id, err := s.store.InsertCategory(catalog.Category{Name: strings.TrimSpace(body.Name)})
	if err != nil {
		http.Error(w, fmt.Sprintf("insert category: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, catalog.Category{ID: id, Name: strings.TrimSpace(body.Name)})
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var body categoryRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "category name is required", http.StatusBadRequest)
		return
	}

	if err := s.store.UpdateCategory(catalog.Category{ID: id, Name: strings.TrimSpace(body.Name)}); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("update category: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "category", s.store.DeleteCategory)
}

func (s *Server) handleProductList(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts()
	if err != nil {
		http.Error(w, fmt.Sprintf("list products: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	product, ok := s.decodeProduct(w, r)
	if !ok {
		return
	}

	id, err := s.store.InsertProduct(product)
	if err != nil {
		http.Error(w, fmt.Sprintf("insert product: %v", err), http.StatusInternalServerError)
		return
	}
	product.ID = id
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleProductGet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, found, err := s.store.GetProductByID(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("get product: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, ok := s.decodeProduct(w, r)
	if !ok {
		return
	}
	product.ID = id

	if err := s.store.UpdateProduct(product); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("update product: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "product", s.store.DeleteProduct)
}

func (s *Server) decodeProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	var body productRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return catalog.Product{}, false
	}
	if strings.TrimSpace(body.Name) == "" {
		http.Error(w, "product name is required", http.StatusBadRequest)
		return catalog.Product{}, false
	}
	if body.CategoryID <= 0 {
		http.Error(w, "categoryId must be > 0", http.StatusBadRequest)
		return catalog.Product{}, false
	}

	return catalog.Product{
		CategoryID:  body.CategoryID,
		Name:        strings.TrimSpace(body.Name),
		Description: strings.TrimSpace(body.Description),
		Active:      body.Active,
	}, true
}

func (s *Server) handlePriceGet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	points, found, err := s.store.CurrentPrice(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("load current price: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "product has no price", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, catalog.Price{ProductID: id, Points: points})
}

func (s *Server) handlePriceCreate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var body priceRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Points <= 0 {
		http.Error(w, "points must be > 0", http.StatusBadRequest)
		return
	}

	if _, found, err := s.store.GetProductByID(id); err != nil {
		http.Error(w, fmt.Sprintf("get product: %v", err), http.StatusInternalServerError)
		return
	} else if !found {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	price := catalog.Price{ProductID: id, Points: body.Points}
	priceID, err := s.store.InsertPrice(price)
	if err != nil {
		http.Error(w, fmt.Sprintf("insert price: %v", err), http.StatusInternalServerError)
		return
	}
	price.ID = priceID
	writeJSON(w, http.StatusCreated, price)
}

func (s *Server) handleProductImageList(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	images, err := s.store.ListProductImages(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("list product images: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (s *Server) handleProductImageUpload(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if _, found, err := s.store.GetProductByID(id); err != nil {
		http.Error(w, fmt.Sprintf("get product: %v", err), http.StatusInternalServerError)
		return
	} else if !found {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	fileName, ok := s.saveMediaUpload(w, r)
	if !ok {
		return
	}

	position, _ := strconv.Atoi(r.FormValue("position"))
	image := catalog.ProductImage{ProductID: id, FileName: fileName, Position: position}
	imageID, err := s.store.InsertProductImage(image)
	if err != nil {
		http.Error(w, fmt.Sprintf("insert product image: %v", err), http.StatusInternalServerError)
		return
	}
	image.ID = imageID
	writeJSON(w, http.StatusCreated, image)
}

func (s *Server) handleProductImageDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "product image", s.store.DeleteProductImage)
}

func (s *Server) handleSizeChartList(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	charts, err := s.store.ListSizeCharts(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("list size charts: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, charts)
}

func (s *Server) handleSizeChartUpload(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	fileName, ok := s.saveMediaUpload(w, r)
	if !ok {
		return
	}

	label := strings.TrimSpace(r.FormValue("label"))
	if label == "" {
		label = "Tabela de medidas"
	}

	chart := catalog.SizeChart{ProductID: id, Label: label, ImageFile: fileName}
	chartID, err := s.store.InsertSizeChart(chart)
	if err != nil {
		http.Error(w, fmt.Sprintf("insert size chart: %v", err), http.StatusInternalServerError)
		return
	}
	chart.ID = chartID
	writeJSON(w, http.StatusCreated, chart)
}

func (s *Server) handleSizeChartDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "size chart", s.store.DeleteSizeChart)
}

func (s *Server) handleBannerList(w http.ResponseWriter, r *http.Request) {
	banners, err := s.store.ListBanners()
	if err != nil {
		http.Error(w, fmt.Sprintf("list banners: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, banners)
}

func (s *Server) handleBannerUpload(w http.ResponseWriter, r *http.Request) {
	fileName, ok := s.saveMediaUpload(w, r)
	if !ok {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		http.Error(w, "banner title is required", http.StatusBadRequest)
		return
	}
	position, _ := strconv.Atoi(r.FormValue("position"))

	banner := catalog.Banner{
		Title:     title,
		ImageFile: fileName,
		LinkURL:   strings.TrimSpace(r.FormValue("link")),
		Position:  position,
	}
	bannerID, err := s.store.InsertBanner(banner)
	if err != nil {
		http.Error(w, fmt.Sprintf("insert banner: %v", err), http.StatusInternalServerError)
		return
	}
	banner.ID = bannerID
	writeJSON(w, http.StatusCreated, banner)
}

func (s *Server) handleBannerDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, "banner", s.store.DeleteBanner)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.Balance(r.PathValue("cnpj"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) handleRedemptionList(w http.ResponseWriter, r *http.Request) {
	cnpj := strings.TrimSpace(r.PathValue("cnpj"))
	if cnpj == "" {
		http.Error(w, "cnpj is required", http.StatusBadRequest)
		return
	}

	redemptions, err := s.store.ListRedemptions(cnpj)
	if err != nil {
		http.Error(w, fmt.Sprintf("list redemptions: %v", err), http.StatusInternalServerError)
		return
	}

	out := make([]redemptionResponse, 0, len(redemptions))
	for _, redemption := range redemptions {
		out = append(out, redemptionResponse{
			ID:        redemption.ID,
			CNPJ:      redemption.CNPJ,
			ProductID: redemption.ProductID,
			Points:    redemption.Points,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRedemptionCreate(w http.ResponseWriter, r *http.Request) {
	var body redemptionRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if body.ProductID > 0 {
		if _, found, err := s.store.GetProductByID(body.ProductID); err != nil {
			http.Error(w, fmt.Sprintf("get product: %v", err), http.StatusInternalServerError)
			return
		} else if !found {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
	}

	redemption, err := s.ledger.Redeem(body.CNPJ, body.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance), errors.Is(err, ledger.ErrProductNotPriced):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	writeJSON(w, http.StatusCreated, redemptionResponse{
		ID:        redemption.ID,
		CNPJ:      redemption.CNPJ,
		ProductID: redemption.ProductID,
		Points:    redemption.Points,
	})
}

func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, label string, deleteFn func(int64) (bool, error)) {
	id, err := parsePositiveInt64(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid "+label+" id", http.StatusBadRequest)
		return
	}

	deleted, err := deleteFn(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("delete %s: %v", label, err), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, label+" not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveMediaUpload validates the "image" form file and stores it under the
// media dir with a random name. Reports its own HTTP errors; ok is false then.
func (s *Server) saveMediaUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxSizeBytes())
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxSizeBytes()); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image upload", http.StatusBadRequest)
		return "", false
	}
	defer file.Close()

	if !extensionAllowed(header.Filename, s.cfg.Upload.ImageExtensions) {
		http.Error(w, fmt.Sprintf("unsupported image type %q", filepath.Ext(header.Filename)), http.StatusBadRequest)
		return "", false
	}

	if err := os.MkdirAll(s.cfg.Media.Dir, 0o755); err != nil {
		http.Error(w, fmt.Sprintf("create media dir: %v", err), http.StatusInternalServerError)
		return "", false
	}

	fileName := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(s.cfg.Media.Dir, fileName))
	if err != nil {
		http.Error(w, fmt.Sprintf("create media file: %v", err), http.StatusInternalServerError)
		return "", false
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, fmt.Sprintf("save media file: %v", err), http.StatusInternalServerError)
		return "", false
	}

	return fileName, true
}

func extensionAllowed(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, candidate := range allowed {
		if ext == strings.ToLower(strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be > 0")
	}
	return parsed, nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}
