package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"

	FieldMemberID    = "member_id"
	FieldProductID   = "product_id"
	FieldOrderID     = "order_id"
	FieldFeeID       = "fee_id"
	FieldFeeMonth    = "fee_month"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldProject     = "project"
	FieldBatchID     = "import_batch_id"
	FieldFilename    = "filename"
	FieldRowsParsed  = "rows_parsed"
	FieldInserted    = "inserted"
	FieldSkipped     = "skipped"
	FieldLedgerEntry = "ledger_entry_id"
	FieldEntryKind   = "entry_kind"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentLedger  = "ledger"
	ComponentImport  = "import"
	ComponentFees    = "fees"
	ComponentReports = "reports"
	ComponentAMQP    = "amqp"
	ComponentFeegen  = "feegen"
	ComponentWorker  = "worker"
)
