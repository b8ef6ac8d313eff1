package http

import (
	"net/http"
	"time"

	"kasa/internal/core"
	"kasa/internal/services"
)

type orderPayload struct {
	MemberID  int64                   `json:"member_id"`
	OrderDate string                  `json:"order_date"`
	Items     []services.OrderRequest `json:"items"`
}

type orderItemResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	MemberID      int64               `json:"member_id"`
	OrderDate     string              `json:"order_date"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	TotalAmount   string              `json:"total_amount"`
	Items         []orderItemResponse `json:"items"`
}

func orderJSON(o core.SalesOrder) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		MemberID:      o.MemberID,
		OrderDate:     formatDate(o.OrderDate),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   core.FormatAmount(o.TotalAmount),
		Items:         make([]orderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: core.FormatAmount(it.UnitPrice),
			LineTotal: core.FormatAmount(it.LineTotal),
		})
	}
	return resp
}

type ledgerEntryResponse struct {
	ID            int64  `json:"id"`
	TxnDate       string `json:"txn_date"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	MemberID      *int64 `json:"member_id,omitempty"`
	Project       string `json:"project,omitempty"`
	Category      string `json:"category,omitempty"`
	Description   string `json:"description,omitempty"`
	Source        string `json:"source,omitempty"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   int64  `json:"reference_id"`
}

func ledgerEntryJSON(e core.LedgerEntry) ledgerEntryResponse {
	return ledgerEntryResponse{
		ID:            e.ID,
		TxnDate:       e.TxnDate,
		Kind:          string(e.Kind),
		Amount:        core.FormatAmount(e.Amount),
		MemberID:      e.MemberID,
		Project:       e.Project,
		Category:      e.Category,
		Description:   e.Description,
		Source:        e.Source,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
	}
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List orders failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, orderJSON(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	orderDate, err := parseDateField(payload.OrderDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}
	order, err := s.orders.Create(r.Context(), payload.MemberID, orderDate, payload.Items)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create order failed", "error", err, "member_id", payload.MemberID)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderJSON(order))
}

type payPayload struct {
	PaymentMethod string `json:"payment_method"`
	PaymentDate   string `json:"payment_date"`
}

func (p payPayload) date() (time.Time, error) {
	d, err := parseDateField(p.PaymentDate)
	if err != nil {
		return time.Time{}, err
	}
	if d.IsZero() {
		d = time.Now().UTC()
	}
	return d, nil
}

func (s *Server) handlePayOrder(w http.ResponseWriter, r *http.Request) {
	var payload payPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payDate, err := payload.date()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entry, err := s.orders.Pay(r.Context(), pathID(r), payload.PaymentMethod, payDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerEntryJSON(entry))
}
