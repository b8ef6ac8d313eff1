package http

import (
	"net/http"

	"kasa/internal/core"
)

type reimbursementPayload struct {
	MemberID     int64  `json:"member_id"`
	PurchaseDate string `json:"purchase_date"`
	Vendor       string `json:"vendor"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	Project      string `json:"project"`
	ReceiptName  string `json:"receipt_name"`
	ReceiptNote  string `json:"receipt_note"`
}

type reimbursementResponse struct {
	ID            int64  `json:"id"`
	MemberID      int64  `json:"member_id"`
	PurchaseDate  string `json:"purchase_date"`
	Vendor        string `json:"vendor,omitempty"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Category      string `json:"category,omitempty"`
	Project       string `json:"project,omitempty"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`
	ReceiptName   string `json:"receipt_name,omitempty"`
	ReceiptNote   string `json:"receipt_note,omitempty"`
}

func reimbursementJSON(rb core.Reimbursement) reimbursementResponse {
	resp := reimbursementResponse{
		ID:            rb.ID,
		MemberID:      rb.MemberID,
		PurchaseDate:  formatDate(rb.PurchaseDate),
		Vendor:        rb.Vendor,
		Description:   rb.Description,
		Amount:        core.FormatAmount(rb.Amount),
		Category:      rb.Category,
		Project:       rb.Project,
		PaymentStatus: string(rb.PaymentStatus),
		PaymentMethod: rb.PaymentMethod,
		ReceiptName:   rb.ReceiptName,
		ReceiptNote:   rb.ReceiptNote,
	}
	if rb.PaymentDate != nil {
		resp.PaymentDate = formatDate(*rb.PaymentDate)
	}
	return resp
}

func (s *Server) handleListReimbursements(w http.ResponseWriter, r *http.Request) {
	reimbs, err := s.payments.ListReimbursements(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List reimbursements failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]reimbursementResponse, 0, len(reimbs))
	for _, rb := range reimbs {
		resp = append(resp, reimbursementJSON(rb))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateReimbursement(w http.ResponseWriter, r *http.Request) {
	var payload reimbursementPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	purchaseDate, err := parseDateField(payload.PurchaseDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	amount, err := core.ParseAmount(payload.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := s.payments.CreateReimbursement(r.Context(), core.Reimbursement{
		MemberID:      payload.MemberID,
		PurchaseDate:  purchaseDate,
		Vendor:        payload.Vendor,
		Description:   payload.Description,
		Amount:        amount,
		Category:      payload.Category,
		Project:       payload.Project,
		PaymentStatus: core.Unpaid,
		ReceiptName:   payload.ReceiptName,
		ReceiptNote:   payload.ReceiptNote,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create reimbursement failed", "error", err, "member_id", payload.MemberID)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reimbursementJSON(created))
}

func (s *Server) handlePayReimbursement(w http.ResponseWriter, r *http.Request) {
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
	entry, err := s.payments.PayReimbursement(r.Context(), pathID(r), payload.PaymentMethod, payDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerEntryJSON(entry))
}

type expensePayload struct {
	ExpenseDate string `json:"expense_date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Project     string `json:"project"`
	Vendor      string `json:"vendor"`
	ReceiptName string `json:"receipt_name"`
	ReceiptNote string `json:"receipt_note"`
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	ExpenseDate string `json:"expense_date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Project     string `json:"project,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	ReceiptName string `json:"receipt_name,omitempty"`
	ReceiptNote string `json:"receipt_note,omitempty"`
}

func expenseJSON(e core.CashExpense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		ExpenseDate: formatDate(e.ExpenseDate),
		Amount:      core.FormatAmount(e.Amount),
		Description: e.Description,
		Category:    e.Category,
		Project:     e.Project,
		Vendor:      e.Vendor,
		ReceiptName: e.ReceiptName,
		ReceiptNote: e.ReceiptNote,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.payments.ListCashExpenses(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, expenseJSON(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	expenseDate, err := parseDateField(payload.ExpenseDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	amount, err := core.ParseAmount(payload.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := s.payments.CreateCashExpense(r.Context(), core.CashExpense{
		ExpenseDate: expenseDate,
		Amount:      amount,
		Description: payload.Description,
		Category:    payload.Category,
		Project:     payload.Project,
		Vendor:      payload.Vendor,
		ReceiptName: payload.ReceiptName,
		ReceiptNote: payload.ReceiptNote,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseJSON(created))
}
