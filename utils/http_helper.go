package utils

import (
	"net/http"

	"github.com/goccy/go-json"

	"trip_recommender/logger"
	"trip_recommender/models"
)

// WriteJSON writes data as JSON with the given HTTP status. A value that
// cannot be encoded is logged and answered with a 500 envelope instead.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error("encode response failed", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(models.NewErrorResponse(models.CodeServerError, nil))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Error("write response failed", "error", err)
	}
}

func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, models.NewSuccessResponse(data))
}

func WriteErrorResponse(w http.ResponseWriter, status, code int, data interface{}) {
	WriteJSON(w, status, models.NewErrorResponse(code, data))
}

func WriteCustomErrorResponse(w http.ResponseWriter, status, code int, message string, data interface{}) {
	WriteJSON(w, status, models.NewCustomErrorResponse(code, message, data))
}

// ValidateUserID rejects requests without a user id.
func ValidateUserID(w http.ResponseWriter, userID string) bool {
	if userID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, models.CodeMissingParams, map[string]interface{}{
			"param": "userId",
		})
		return false
	}
	return true
}

// OptionalQuery returns the query parameter, or nil when it was not supplied.
func OptionalQuery(r *http.Request, name string) *string {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
