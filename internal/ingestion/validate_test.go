package ingestion

import (
	"testing"

	"github.com/learning-intelligence/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFormatValid(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "students.csv", testutil.SampleCSV)

	result, err := ValidateInputFormat(path)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, 9, result.Statistics["total_records"])
	assert.Equal(t, 3, result.Statistics["unique_students"])
	assert.Equal(t, 3, result.Statistics["unique_chapters"])
	assert.Equal(t, 0, result.Statistics["missing_values"])
}

func TestValidateInputFormatCountsMissingValues(t *testing.T) {
	csv := "student_id,chapter,completion,score,time_spent_minutes,attempts\n" +
		"alice,ch1,1.0,92,34,1\n" +
		",ch1,0.5,60,20,2\n" +
		"bob,,0.5,60,20,2\n"
	path := testutil.WriteFile(t, t.TempDir(), "gaps.csv", csv)

	result, err := ValidateInputFormat(path)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.Statistics["total_records"])
	assert.Equal(t, 1, result.Statistics["unique_students"])
	assert.Equal(t, 2, result.Statistics["missing_values"])
}

func TestValidateInputFormatInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{
			name:    "wrong extension",
			file:    "data.txt",
			content: "anything",
			wantMsg: "unsupported file format",
		},
		{
			name:    "missing columns",
			file:    "short.csv",
			content: "student_id,score\nalice,90\n",
			wantMsg: "missing required columns",
		},
		{
			name:    "header only",
			file:    "headeronly.csv",
			content: "student_id,chapter,completion,score,time_spent_minutes,attempts\n",
			wantMsg: "no records",
		},
		{
			name:    "unparseable",
			file:    "broken.json",
			content: "][",
			wantMsg: "could not parse",
		},
		{
			name:    "all rows unusable",
			file:    "unusable.csv",
			content: "student_id,chapter,completion,score,time_spent_minutes,attempts\n,,0,0,0,0\n",
			wantMsg: "no usable records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.file, tt.content)
			result, err := ValidateInputFormat(path)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}
