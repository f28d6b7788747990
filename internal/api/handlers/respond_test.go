package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplens/scout/internal/profile"
)

func TestRespondData_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, map[string]int{"count": 3})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Data["count"])
}

func TestRespondError_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusBadRequest, "Missing profile")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing profile", body["error"])
}

func TestWarningStrings(t *testing.T) {
	clean, err := profile.FromJSON([]byte(`{
		"investment_goals": {"risk_tolerance": "low"}
	}`))
	require.NoError(t, err)
	assert.Empty(t, warningStrings(clean))

	odd, err := profile.FromJSON([]byte(`{
		"investment_goals": {"risk_tolerance": "yolo"}
	}`))
	require.NoError(t, err)

	warnings := warningStrings(odd)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "risk_tolerance")
}
