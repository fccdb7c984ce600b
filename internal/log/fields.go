package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldUser      = "user"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldWallet    = "wallet"
	FieldProvider  = "provider"
	FieldDuration  = "duration_ms"
	FieldMessageID = "message_id"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentBot     = "bot"
	ComponentParser  = "parser"
	ComponentAI      = "ai"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentPrefs   = "prefs"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentHTTP    = "http"
	ComponentConsole = "console"
)
