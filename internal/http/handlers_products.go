package http

import (
	"context"
	"net/http"

	"kasa/internal/core"
)

// ProductStore is the product surface the handlers use.
type ProductStore interface {
	CreateProduct(ctx context.Context, p core.Product) (core.Product, error)
	GetProduct(ctx context.Context, id int64) (core.Product, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	UpdateProduct(ctx context.Context, p core.Product) error
}

type productPayload struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	UnitPrice     string `json:"unit_price"`
	StockQuantity int    `json:"stock_quantity"`
}

type productResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	UnitPrice     string `json:"unit_price"`
	StockQuantity int    `json:"stock_quantity"`
}

func productJSON(p core.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		UnitPrice:     core.FormatAmount(p.UnitPrice),
		StockQuantity: p.StockQuantity,
	}
}

func (p productPayload) toProduct() (core.Product, error) {
	price, err := core.ParseAmount(p.UnitPrice)
	if err != nil {
		return core.Product{}, err
	}
	return core.Product{
		Name:          p.Name,
		Category:      p.Category,
		UnitPrice:     price,
		StockQuantity: p.StockQuantity,
	}, nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List products failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productJSON(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := payload.toProduct()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := p.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := s.store.CreateProduct(r.Context(), p)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create product failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productJSON(created))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProduct(r.Context(), pathID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productJSON(p))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := payload.toProduct()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p.ID = pathID(r)
	if err := p.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.UpdateProduct(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productJSON(p))
}
