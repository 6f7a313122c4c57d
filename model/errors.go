package model

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch errReason.Error() {
	case "CONFIGURATION_ERROR":
		return APIError{
			Code:    "CONFIGURATION_ERROR",
			Message: "github username is not configured. set GITHUB.Username in the configuration or the GITHUB_USERNAME environment variable",
		}

	case "RATE_LIMIT_REACHED":
		return APIError{
			Code:    "RATE_LIMIT_REACHED",
			Message: "github rate limit reached. consider using a token to increase the limit or wait few minutes and try again",
		}

	default:
		return APIError{
			Code:    errReason.Error(),
			Message: "unable to load data from github. try again later or contact the site owner with the reason code",
		}
	}
}
