package errors

import "net/http"

// HTTPStatus maps an error type to the status code the API answers with.
func HTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ValidationError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case NetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
