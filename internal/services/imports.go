package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"kasa/internal/core"
	"kasa/internal/importer"
	"kasa/internal/log"
)

// ImportStore is the slice of the record store the import flows need.
type ImportStore interface {
	ListMemberNames(ctx context.Context) ([]string, error)
	CreateMembers(ctx context.Context, members []core.Member) (int, error)
	InsertBankTransactions(ctx context.Context, txns []core.BankTransaction, filename, batchID string) ([]core.BankTransaction, int, error)
}

// ImportService runs member-list and bank-statement imports end to end:
// decode the upload, normalize rows, deduplicate against stored records,
// insert what is new.
type ImportService struct {
	store  ImportStore
	logger *log.Logger
}

func NewImportService(store ImportStore, logger *log.Logger) *ImportService {
	return &ImportService{store: store, logger: logger.WithComponent(log.ComponentImport)}
}

// MemberImportSummary reports one member import run.
type MemberImportSummary struct {
	Received int `json:"received"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
}

// ImportMembers decodes a JSON member list and inserts members not already
// present by name. Rows without a join date get runDate.
func (s *ImportService) ImportMembers(ctx context.Context, data []byte, runDate time.Time) (MemberImportSummary, error) {
	raws, err := importer.DecodeMemberFile(data)
	if err != nil {
		return MemberImportSummary{}, err
	}

	existing, err := s.store.ListMemberNames(ctx)
	if err != nil {
		return MemberImportSummary{}, fmt.Errorf("list member names: %w", err)
	}

	normalized := importer.NormalizeMembers(existing, raws, runDate)
	if normalized.DefaultedDates > 0 {
		s.logger.WarnContext(ctx, "Member rows with unparseable join dates defaulted to run date",
			"count", normalized.DefaultedDates)
	}
	members := make([]core.Member, 0, len(normalized.Members))
	for _, nm := range normalized.Members {
		members = append(members, core.Member{
			FullName: nm.FullName,
			Team:     nm.Team,
			JoinDate: nm.JoinDate,
			Notes:    nm.Notes,
		})
	}

	created, err := s.store.CreateMembers(ctx, members)
	if err != nil {
		return MemberImportSummary{}, fmt.Errorf("create members: %w", err)
	}

	summary := MemberImportSummary{Received: len(raws), Created: created, Skipped: normalized.Skipped}
	s.logger.InfoContext(ctx, "Member import finished",
		"received", summary.Received, "created", summary.Created, "skipped", summary.Skipped)
	return summary, nil
}

// BankImportSummary reports one bank statement import run.
type BankImportSummary struct {
	BatchID    string                 `json:"batch_id"`
	Filename   string                 `json:"filename"`
	HeaderRow  int                    `json:"header_row"`
	Mapping    importer.ColumnMapping `json:"mapping"`
	RowsParsed int                    `json:"rows_parsed"`
	Inserted   int                    `json:"inserted"`
	Duplicates int                    `json:"duplicates"`
	Skipped    int                    `json:"skipped"`
}

// ImportBankStatement reads an uploaded statement (xlsx or csv), parses it
// with the given column mapping (auto-detected when nil) and inserts the
// non-duplicate transactions, posting one ledger entry per inserted row.
func (s *ImportService) ImportBankStatement(ctx context.Context, file io.Reader, filename string, mapping *importer.ColumnMapping) (BankImportSummary, error) {
	rows, err := importer.ReadGrid(file, filename)
	if err != nil {
		return BankImportSummary{}, err
	}

	parsed, err := importer.ParseStatement(rows, mapping)
	if err != nil {
		return BankImportSummary{}, err
	}

	batchID := uuid.NewString()
	inserted, duplicates, err := s.store.InsertBankTransactions(ctx, parsed.Transactions, filename, batchID)
	if err != nil {
		return BankImportSummary{}, fmt.Errorf("insert bank transactions: %w", err)
	}

	summary := BankImportSummary{
		BatchID:    batchID,
		Filename:   filename,
		HeaderRow:  parsed.HeaderRow,
		Mapping:    parsed.Mapping,
		RowsParsed: len(parsed.Transactions),
		Inserted:   len(inserted),
		Duplicates: duplicates,
		Skipped:    parsed.Skipped,
	}
	s.logger.InfoContext(ctx, "Bank import finished",
		log.FieldBatchID, summary.BatchID,
		log.FieldRowsParsed, summary.RowsParsed,
		"inserted", summary.Inserted, "duplicates", summary.Duplicates, "skipped", summary.Skipped)
	return summary, nil
}
