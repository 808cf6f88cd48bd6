package database

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestGenerateMetadataID(t *testing.T) {
	// Ensure metadata ids are deterministic for a given week and symbol.
	now := time.Date(2024, time.March, 18, 10, 0, 0, 0, time.UTC)
	id := generateMetadataID(now, "R_100")
	assert.Equal(t, id, "March-Week-2-R_100")

	later := now.Add(time.Hour * 3)
	assert.Equal(t, generateMetadataID(later, "R_100"), id)

	// Ensure ids differ across weeks and symbols.
	nextWeek := now.AddDate(0, 0, 7)
	assert.NotEqual(t, generateMetadataID(nextWeek, "R_100"), id)
	assert.NotEqual(t, generateMetadataID(now, "R_50"), id)
}
