package models

// Response codes
const (
	CodeSuccess = 0

	// client errors (1000-1999)
	CodeMissingParams = 1001
	CodeUserNotFound  = 1002
	CodeRateLimited   = 1003

	// server errors (2000-2999)
	CodeServerError       = 2000
	CodeDatabaseError     = 2001
	CodeRecommendGenError = 2003
)

var CodeMessages = map[int]string{
	CodeSuccess:           "success",
	CodeMissingParams:     "Missing required parameters",
	CodeUserNotFound:      "User not found",
	CodeRateLimited:       "Rate Limit Exceeded. Try again after 15 Minutes",
	CodeServerError:       "Internal server error",
	CodeDatabaseError:     "Database error",
	CodeRecommendGenError: "Failed to fetch recommendations",
}

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// RecommendationsData is the payload of a successful recommendation request.
type RecommendationsData struct {
	Recommendations []ScoredTrip `json:"recommendations"`
}

// RecommendationResponse documents the recommendation endpoint for swagger.
type RecommendationResponse struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message" example:"success"`
	Data    RecommendationsData `json:"data"`
}

func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    CodeSuccess,
		Message: CodeMessages[CodeSuccess],
		Data:    data,
	}
}

func NewErrorResponse(code int, data interface{}) APIResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "Unknown error"
	}
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewCustomErrorResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
