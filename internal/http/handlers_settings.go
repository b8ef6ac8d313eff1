package http

import (
	"context"
	"net/http"

	"kasa/internal/core"
)

// SettingsStore reads and writes the single settings record.
type SettingsStore interface {
	GetSettings(ctx context.Context) (core.Settings, error)
	UpdateSettings(ctx context.Context, s core.Settings) error
}

type settingsPayload struct {
	FeeAmount  string   `json:"fee_amount"`
	Categories []string `json:"categories"`
	Projects   []string `json:"projects"`
}

func settingsJSON(s core.Settings) settingsPayload {
	return settingsPayload{
		FeeAmount:  core.FormatAmount(s.FeeAmount),
		Categories: s.Categories,
		Projects:   s.Projects,
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Load settings failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsJSON(settings))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := core.ParseAmount(payload.FeeAmount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	settings := core.Settings{
		FeeAmount:  amount,
		Categories: payload.Categories,
		Projects:   payload.Projects,
	}
	if err := s.store.UpdateSettings(r.Context(), settings); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsJSON(settings))
}
