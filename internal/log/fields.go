package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldEventID       = "event_id"
	FieldTransactionID = "transaction_id"
	FieldStatusFrom    = "from"
	FieldStatusTo      = "to"
	FieldAmountCents   = "amount_cents"
	FieldSheetsRef     = "sheets_ref"
)

// Component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentServices = "services"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentBackend  = "backend"
)

// LogFields builds key/value pairs for slog.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds the error message; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEvent adds the event id and, when set, the transaction id.
func (f LogFields) WithEvent(eventID, transactionID string) LogFields {
	f[FieldEventID] = eventID
	if transactionID != "" {
		f[FieldTransactionID] = transactionID
	}
	return f
}

func (f LogFields) WithStatusChange(from, to string) LogFields {
	f[FieldStatusFrom] = from
	f[FieldStatusTo] = to
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent, clientIP string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	f[FieldClientIP] = clientIP
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice flattens the fields in key order.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
