package constants

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyUsername = "username"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Auth
const (
	MinPasswordLength = 6
	TokenType         = "bearer"
)

// Upload
const (
	UploadDateLayout    = "20060102"
	DefaultMaxUploadMiB = 50
)

// Import
const (
	ImportFormFileField = "file"
	ImportFormatCSV     = "csv"
	ImportFormatXLSX    = "xlsx"
)

// Statistics
const (
	DefaultStatisticsWindowDays = 30
	StatisticsTopN              = 10
)

// Decimal scales of the money and quantity columns
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 3
)
