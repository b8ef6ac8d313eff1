package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"kasa/internal/core"
)

// MemberStore is the member surface the handlers use.
type MemberStore interface {
	CreateMember(ctx context.Context, m core.Member) (core.Member, error)
	GetMember(ctx context.Context, id int64) (core.Member, error)
	ListMembers(ctx context.Context) ([]core.Member, error)
	UpdateMember(ctx context.Context, m core.Member) error
	SetMemberLeaveDate(ctx context.Context, id int64, leaveDate time.Time) error
}

type memberPayload struct {
	FullName  string `json:"full_name"`
	Team      string `json:"team"`
	JoinDate  string `json:"join_date"`
	LeaveDate string `json:"leave_date"`
	Notes     string `json:"notes"`
}

type memberResponse struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	Team      string `json:"team,omitempty"`
	JoinDate  string `json:"join_date"`
	LeaveDate string `json:"leave_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func memberJSON(m core.Member) memberResponse {
	resp := memberResponse{
		ID:       m.ID,
		FullName: m.FullName,
		Team:     m.Team,
		JoinDate: formatDate(m.JoinDate),
		Notes:    m.Notes,
	}
	if m.LeaveDate != nil {
		resp.LeaveDate = formatDate(*m.LeaveDate)
	}
	return resp
}

func (p memberPayload) toMember() (core.Member, error) {
	join, err := parseDateField(p.JoinDate)
	if err != nil {
		return core.Member{}, err
	}
	m := core.Member{
		FullName: p.FullName,
		Team:     p.Team,
		JoinDate: join,
		Notes:    p.Notes,
	}
	if p.LeaveDate != "" {
		leave, err := parseDateField(p.LeaveDate)
		if err != nil {
			return core.Member{}, err
		}
		m.LeaveDate = &leave
	}
	return m, nil
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List members failed", "error", err)
		writeDomainError(w, err)
		return
	}
	resp := make([]memberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, memberJSON(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := payload.toMember()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if err := m.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	created, err := s.store.CreateMember(r.Context(), m)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create member failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberJSON(created))
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMember(r.Context(), pathID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberJSON(m))
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := payload.toMember()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	m.ID = pathID(r)
	if err := m.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.UpdateMember(r.Context(), m); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberJSON(m))
}

func (s *Server) handleMemberLeave(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		LeaveDate string `json:"leave_date"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	leave, err := parseDateField(payload.LeaveDate)
	if err != nil || leave.IsZero() {
		writeDomainError(w, core.ErrInvalidDate)
		return
	}
	if err := s.store.SetMemberLeaveDate(r.Context(), pathID(r), leave); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportMembers accepts a JSON member list, either as the raw request
// body or as a multipart "file" part, and inserts the names not already
// present.
func (s *Server) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "parse multipart form: upload too large or malformed")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file part")
			return
		}
		defer file.Close()
		src = file
	}
	body, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}
	summary, err := s.imports.ImportMembers(r.Context(), body, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Member import failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
