package ingestion

import (
	"testing"

	"github.com/learning-intelligence/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDataCSV(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "students.csv", testutil.SampleCSV)

	ds, err := LoadData(path)
	require.NoError(t, err)

	assert.Equal(t, 9, ds.Len())
	assert.Equal(t, RequiredColumns, ds.Columns)

	first := ds.Records[0]
	assert.Equal(t, "alice", first.StudentID)
	assert.Equal(t, "ch1", first.Chapter)
	assert.Equal(t, 1.0, first.Completion)
	assert.Equal(t, 92.0, first.Score)
	assert.Equal(t, 34.0, first.TimeSpentMinutes)
	assert.Equal(t, 1.0, first.Attempts)
}

func TestLoadDataCSVHeaderNormalization(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "upper.csv",
		"Student_ID, Chapter ,COMPLETION,Score,Time_Spent_Minutes,Attempts\nalice,ch1,0.5,60,20,2\n")

	ds, err := LoadData(path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "alice", ds.Records[0].StudentID)
	assert.Equal(t, 0.5, ds.Records[0].Completion)
}

func TestLoadDataJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "students.json", testutil.SampleJSON)

	ds, err := LoadData(path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "bob", ds.Records[1].StudentID)
	assert.Equal(t, 55.0, ds.Records[1].Score)
}

func TestLoadDataErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "data.txt", "whatever"},
		{"empty csv", "empty.csv", ""},
		{"malformed json", "bad.json", "{not json"},
		{"json object instead of array", "obj.json", `{"student_id":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.file, tt.content)
			_, err := LoadData(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadDataMissingFile(t *testing.T) {
	_, err := LoadData("nope/missing.csv")
	assert.Error(t, err)
}
