package http

import (
	"encoding/json"
	"net/http"

	"kasa/internal/core"
	"kasa/internal/importer"
)

type bankTransactionResponse struct {
	ID             int64  `json:"id"`
	TxnDate        string `json:"txn_date"`
	Description    string `json:"description"`
	Amount         string `json:"amount"`
	Direction      string `json:"direction"`
	Counterparty   string `json:"counterparty,omitempty"`
	Reference      string `json:"reference,omitempty"`
	ImportFilename string `json:"import_filename,omitempty"`
	ImportBatchID  string `json:"import_batch_id,omitempty"`
}

func bankTransactionJSON(t core.BankTransaction) bankTransactionResponse {
	return bankTransactionResponse{
		ID:             t.ID,
		TxnDate:        t.TxnDate,
		Description:    t.Description,
		Amount:         core.FormatAmount(t.Amount),
		Direction:      string(t.Direction),
		Counterparty:   t.Counterparty,
		Reference:      t.Reference,
		ImportFilename: t.ImportFilename,
		ImportBatchID:  t.ImportBatchID,
	}
}

// handleBankImport accepts a multipart upload: a "file" part holding the
// statement (xlsx or csv) and an optional "mapping" part with an explicit
// column mapping as JSON. Without a mapping the columns are auto-detected.
func (s *Server) handleBankImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "parse multipart form: upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	var mapping *importer.ColumnMapping
	if raw := r.FormValue("mapping"); raw != "" {
		var m importer.ColumnMapping
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			writeError(w, http.StatusBadRequest, "malformed mapping JSON")
			return
		}
		mapping = &m
	}

	summary, err := s.imports.ImportBankStatement(r.Context(), file, header.Filename, mapping)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Bank import failed", "error", err, "filename", header.Filename)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListBankTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.store.ListBankTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List bank transactions failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]bankTransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, bankTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, resp)
}
