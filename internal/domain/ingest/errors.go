package ingest

// Reason identifies why pasted text could not be turned into records.
type Reason string

const (
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonNoHeader         Reason = "no_header"
	ReasonNoAccountColumn  Reason = "no_account_column"
	ReasonNoDateColumn     Reason = "no_date_column"
	ReasonNoRecords        Reason = "no_records"
)

// ParseError is a recognized parse failure carrying a user-facing message.
type ParseError struct {
	Reason  Reason
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Is matches any *ParseError with the same Reason.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Reason == e.Reason
}

// Sentinels for errors.Is checks.
var (
	ErrInsufficientData = &ParseError{Reason: ReasonInsufficientData, Message: "数据不足"}
	ErrNoHeader         = &ParseError{Reason: ReasonNoHeader, Message: "未识别到表头"}
	ErrNoAccountColumn  = &ParseError{Reason: ReasonNoAccountColumn, Message: "未检测到账号列（需包含'号'）"}
	ErrNoDateColumn     = &ParseError{Reason: ReasonNoDateColumn, Message: "未检测到日期列"}
	ErrNoRecords        = &ParseError{Reason: ReasonNoRecords, Message: "未能解析出任何有效记录，请检查数据格式"}
	ErrNoExportedRows   = &ParseError{Reason: ReasonNoRecords, Message: "未解析到有效数据"}
)
