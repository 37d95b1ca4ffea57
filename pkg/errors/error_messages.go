package errors

// ErrorMessages holds the standard message for each error code
var ErrorMessages = map[int]string{
	// ValidationError
	ErrMissingText:        "Text field is required.",
	ErrMissingToken:       "Team member token is required.",
	ErrNoImages:           "At least one image is required.",
	ErrInvalidGPSLocation: "Unknown GPS location. Use usa, germany, canada, australia or france.",
	ErrInvalidForm:        "The submitted form could not be read.",
	ErrTooManyImages:      "Too many images in a single submission.",
	ErrUnsupportedImage:   "Unsupported image format. Use JPEG, PNG or GIF.",
	ErrInvalidRequestBody: "Invalid request body.",

	// AuthError
	ErrUnknownMember:   "Unknown team member.",
	ErrInvalidPassword: "Invalid password. Please try again.",
	ErrSessionExpired:  "Session expired. Please sign in again.",
	ErrPasswordNotSet:  "No password is configured for this team member.",

	// ProcessingError
	ErrImageDecode:       "The image could not be decoded.",
	ErrImageEncode:       "The image could not be converted to JPEG.",
	ErrArchiveWrite:      "The archive could not be written.",
	ErrDescriptionFailed: "The description could not be generated.",

	// NetworkError
	ErrRequestFailed:     "Network request failed. Check the connection and try again.",
	ErrServerUnavailable: "Server unavailable. Try again later.",
	ErrInvalidResponse:   "The server answered with an unexpected response.",

	// RelayError
	ErrRelayQueueFull: "Debug relay queue is full; entry dropped.",
	ErrRelayDelivery:  "Failed to send debug data to API.",

	// SystemError
	ErrConfigLoad:  "The configuration file could not be loaded.",
	ErrFileRead:    "The file could not be read.",
	ErrFileWrite:   "The file could not be written.",
	ErrWatchFailed: "The file could not be watched for changes.",
}

// GetErrorMessage returns the standard message for an error code
func GetErrorMessage(code int) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error."
}
