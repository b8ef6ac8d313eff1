package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kasa/internal/core"
)

type feeResponse struct {
	ID            int64  `json:"id"`
	MemberID      int64  `json:"member_id"`
	FeeMonth      string `json:"fee_month"` // YYYY-MM
	Amount        string `json:"amount"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`
}

func feeJSON(f core.MembershipFee) feeResponse {
	resp := feeResponse{
		ID:            f.ID,
		MemberID:      f.MemberID,
		FeeMonth:      f.FeeMonth.Format("2006-01"),
		Amount:        core.FormatAmount(f.Amount),
		PaymentStatus: string(f.PaymentStatus),
		PaymentMethod: f.PaymentMethod,
	}
	if f.PaymentDate != nil {
		resp.PaymentDate = formatDate(*f.PaymentDate)
	}
	return resp
}

// parseMonth accepts YYYY-MM or YYYY-MM-DD and returns the month start.
func parseMonth(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return core.MonthStart(t), nil
}

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	var month *time.Time
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := parseMonth(v)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		month = &m
	}
	fees, err := s.payments.ListFees(r.Context(), month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List fees failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]feeResponse, 0, len(fees))
	for _, f := range fees {
		resp = append(resp, feeJSON(f))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGenerateFees creates the month's unpaid fee rows for every active
// member. The amount comes from the request or, when absent, from settings.
// Rerunning for the same month never duplicates fees.
func (s *Server) handleGenerateFees(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Month  string `json:"month"`
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Month == "" {
		writeDomainError(w, core.ErrInvalidDate)
		return
	}
	month, err := parseMonth(payload.Month)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	amount := decimal.Zero
	if payload.Amount != "" {
		amount, err = core.ParseAmount(payload.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	} else {
		settings, err := s.store.GetSettings(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Load settings failed", "error", err)
			writeDomainError(w, err)
			return
		}
		amount = settings.FeeAmount
	}

	result, err := s.feegen.Generate(r.Context(), month, amount)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Fee generation failed", "error", err, "fee_month", payload.Month)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePayFee(w http.ResponseWriter, r *http.Request) {
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
	entry, err := s.payments.PayFee(r.Context(), pathID(r), payload.PaymentMethod, payDate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerEntryJSON(entry))
}
