package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingTickers       ErrorCode = 102
	ErrCodeInvalidInterval      ErrorCode = 103
	ErrCodeInvalidMode          ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeInvalidDate          ErrorCode = 106
	ErrCodeInvalidDateRange     ErrorCode = 107
	ErrCodeMissingParameter     ErrorCode = 108

	// Data errors (200-299)
	ErrCodeColumnMismatch    ErrorCode = 201
	ErrCodeDataSourceFailure ErrorCode = 202

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 701
	ErrCodeUnsupportedInterval   ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703
	ErrCodeSymbolNotFound        ErrorCode = 704

	// Filesystem errors (900-999)
	ErrCodeOutputDirFailed ErrorCode = 900
	ErrCodeWriteFailed     ErrorCode = 901

	// Settings errors (1000-1099)
	ErrCodeSettingsLoadFailed ErrorCode = 1000
	ErrCodeSettingsSaveFailed ErrorCode = 1001
	ErrCodeVersionMismatch    ErrorCode = 1002
)
