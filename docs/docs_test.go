package docs_test

import (
	"encoding/json"
	_ "slotbook/docs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestAvailabilityDocumentsDurationCap(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]struct {
			Description string `json:"description"`
		} `json:"paths"`
		Definitions map[string]struct {
			Properties map[string]struct {
				Maximum *int `json:"maximum"`
				Minimum *int `json:"minimum"`
			} `json:"properties"`
		} `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	description := doc.Paths["/api/availability"]["post"].Description
	assert.Contains(t, description, "defaults to 60")
	assert.Contains(t, description, "may not exceed 480")

	duration := doc.Definitions["dto.AvailabilityRequest"].Properties["durationMinutes"]
	require.NotNil(t, duration.Maximum)
	require.NotNil(t, duration.Minimum)
	assert.Equal(t, 480, *duration.Maximum)
	assert.Equal(t, 0, *duration.Minimum)
}
