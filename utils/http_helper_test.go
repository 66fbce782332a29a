package utils

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip_recommender/models"
)

func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorResponse(rec, http.StatusNotFound, models.CodeUserNotFound, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":1002,"message":"User not found"}`, rec.Body.String())
}

func TestWriteJSON_UnencodableValueSendsServerError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteSuccessResponse(rec, map[string]interface{}{"score": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":2000,"message":"Internal server error"}`, rec.Body.String())
}

func TestWriteJSON_KeepsStatusOnSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, map[string]interface{}{"score": 42.5})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"score":42.5}`, rec.Body.String())
}

func TestValidateUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.False(t, ValidateUserID(rec, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"code":1001,"message":"Missing required parameters","data":{"param":"userId"}}`, rec.Body.String())

	assert.True(t, ValidateUserID(httptest.NewRecorder(), "u1"))
}

func TestOptionalQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?lat=10&lng=&budget=abc", nil)

	lat := OptionalQuery(r, "lat")
	require.NotNil(t, lat)
	assert.Equal(t, "10", *lat)

	lng := OptionalQuery(r, "lng")
	require.NotNil(t, lng, "empty value is still supplied")
	assert.Equal(t, "", *lng)

	assert.Nil(t, OptionalQuery(r, "duration"))
}
