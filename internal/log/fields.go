package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUsername   = "username"
	FieldCategory   = "category"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldRecordID   = "record_id"
	FieldRecipient  = "recipient"
	FieldQueue      = "queue"
	FieldExchange   = "exchange"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentLedger    = "ledger"
	ComponentInsights  = "insights"
	ComponentJournal   = "journal"
	ComponentSession   = "session"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentMail      = "mail"
	ComponentExport    = "export"
	ComponentRateLimit = "rate_limit"
	ComponentSecurity  = "security"
)

// Operations defines standard operation names
const (
	OpRegister     = "register"
	OpAuthenticate = "authenticate"
	OpCreate       = "create"
	OpList         = "list"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpReplace      = "replace"
	OpRecord       = "record"
	OpRender       = "render"
	OpPublish      = "publish"
	OpConsume      = "consume"
	OpSend         = "send"
	OpStartup      = "startup"
	OpShutdown     = "shutdown"
)
