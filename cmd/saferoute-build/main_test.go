package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadSegments_ParsesPolylineAndFields(t *testing.T) {
	path := writeTempJSON(t, "segments.json", `[
		{"id": "s1", "polyline": [[38.9, -77.04], [38.901, -77.041]],
		 "street_name": "14th St NW", "road_type": "street", "quadrant": "NW"}
	]`)

	segments, err := loadSegments(path)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "s1", segments[0].ID)
	assert.Equal(t, "14th St NW", segments[0].StreetName)
	assert.Len(t, segments[0].Polyline, 2)
	assert.InDelta(t, 38.9, segments[0].Polyline[0].Lat(), 1e-9)
}

func TestLoadIncidents_ParsesLocationAndFields(t *testing.T) {
	path := writeTempJSON(t, "incidents.json", `[
		{"lat": 38.9, "lon": -77.04, "offense_kind": "robbery", "year": 2023, "time_of_day": "night"}
	]`)

	incidents, err := loadIncidents(path)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.EqualValues(t, "robbery", incidents[0].OffenseKind)
	assert.Equal(t, 2023, incidents[0].Year)
}

func TestLoadWalkablePoints_ParsesPairs(t *testing.T) {
	path := writeTempJSON(t, "walkable.json", `[[38.9, -77.04], [38.901, -77.041]]`)

	points, err := loadWalkablePoints(path)
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{38.9, -77.04}, {38.901, -77.041}}, points)
}

func TestReadJSONFile_MissingFileReturnsError(t *testing.T) {
	var v []int
	err := readJSONFile(filepath.Join(t.TempDir(), "missing.json"), &v)
	assert.Error(t, err)
}

func TestReadJSONFile_InvalidJSONReturnsError(t *testing.T) {
	path := writeTempJSON(t, "bad.json", `{not valid json`)

	var v []int
	err := readJSONFile(path, &v)
	assert.Error(t, err)
}
