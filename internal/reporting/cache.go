package reporting

import (
	"fmt"
	"os"

	"github.com/learning-intelligence/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// ResultsCacheName is the msgpack snapshot of the full results, written next
// to the report artifacts so summaries can be re-served without re-running
// inference.
const ResultsCacheName = "results.msgpack"

// SaveResultsCache writes the full results as msgpack.
func SaveResultsCache(results *models.Results, path string) error {
	data, err := msgpack.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding results cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results cache: %w", err)
	}
	return nil
}

// LoadResultsCache reads a results snapshot written by SaveResultsCache.
func LoadResultsCache(path string) (*models.Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results cache: %w", err)
	}

	var results models.Results
	if err := msgpack.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decoding results cache: %w", err)
	}
	return &results, nil
}
