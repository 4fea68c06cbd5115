package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldPersonID  = "person_id"
	FieldChoreID   = "chore_id"
	FieldPrizeID   = "prize_id"
	FieldAmount    = "amount"
	FieldBalance   = "balance"
	FieldFrequency = "frequency"

	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldRequestID  = "request_id"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentScheduler = "scheduler"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
)
