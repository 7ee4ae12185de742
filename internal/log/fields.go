package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldStrategy    = "strategy"
	FieldDebtName    = "debt_name"
	FieldDebtKind    = "debt_kind"
	FieldItemName    = "item_name"
	FieldFrequency   = "frequency"
	FieldAmountCents = "amount_cents"
	FieldBudgetCents = "budget_cents"
	FieldMonths      = "months"
	FieldCacheKey    = "cache_key"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentPlanner    = "planner"
	ComponentProjection = "projection"
	ComponentCache      = "cache"
	ComponentSheets     = "sheets"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpPlan     = "plan"
	OpProject  = "project"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
