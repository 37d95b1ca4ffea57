package errors

// Error codes, grouped in ranges per error type
const (
	// ValidationError (1000-1099)
	ErrMissingText        = 1000
	ErrMissingToken       = 1001
	ErrNoImages           = 1002
	ErrInvalidGPSLocation = 1003
	ErrInvalidForm        = 1004
	ErrTooManyImages      = 1005
	ErrUnsupportedImage   = 1006
	ErrInvalidRequestBody = 1007

	// AuthError (1100-1199)
	ErrUnknownMember   = 1100
	ErrInvalidPassword = 1101
	ErrSessionExpired  = 1102
	ErrPasswordNotSet  = 1103

	// ProcessingError (1200-1299)
	ErrImageDecode       = 1200
	ErrImageEncode       = 1201
	ErrArchiveWrite      = 1202
	ErrDescriptionFailed = 1203

	// NetworkError (1300-1399)
	ErrRequestFailed     = 1300
	ErrServerUnavailable = 1301
	ErrInvalidResponse   = 1302

	// RelayError (1400-1499)
	ErrRelayQueueFull = 1400
	ErrRelayDelivery  = 1401

	// SystemError (1500-1599)
	ErrConfigLoad  = 1500
	ErrFileRead    = 1501
	ErrFileWrite   = 1502
	ErrWatchFailed = 1503
)
