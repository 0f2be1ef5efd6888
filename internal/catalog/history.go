package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

// ReadHistory parses a CSV of historical samples. The header must name every
// model variable; other columns are ignored and blank cells are skipped.
func ReadHistory(r io.Reader) ([]scoring.Sample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("history: %w", scoring.ErrInsufficientHistory)
		}
		return nil, fmt.Errorf("history header: %w", err)
	}

	columns := make(map[scoring.Variable]int, len(scoring.Variables))
	for i, name := range header {
		if v := scoring.Variable(strings.TrimSpace(name)); v.IsKnown() {
			columns[v] = i
		}
	}
	var missing []string
	for _, v := range scoring.Variables {
		if _, ok := columns[v]; !ok {
			missing = append(missing, string(v))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("history header lacks columns: %s", strings.Join(missing, ", "))
	}

	var history []scoring.Sample
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		line, _ := reader.FieldPos(0)

		sample := make(scoring.Sample, len(scoring.Variables))
		for v, idx := range columns {
			cell := strings.TrimSpace(record[idx])
			if cell == "" {
				continue
			}
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("history line %d, %s: %w", line, v, err)
			}
			sample[v] = val
		}
		history = append(history, sample)
	}
	return history, nil
}

// ReadHistoryFile opens path and parses it with ReadHistory.
func ReadHistoryFile(path string) ([]scoring.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()
	return ReadHistory(f)
}
