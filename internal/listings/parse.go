package listings

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/homescout/homescout/internal/errors"
)

// ParseFile parses an uploaded listings file by extension. Only CSV is
// supported; anything else is rejected as an input error.
func ParseFile(filename string, r io.Reader) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	default:
		return nil, apperrors.NewInputError(
			fmt.Sprintf("unsupported file extension %q, expected .csv", filepath.Ext(filename)))
	}
}

// ParseCSV reads a header-first CSV stream into raw listing records.
// Recognized columns map onto the typed fields; unrecognized columns pass
// through into Extra.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewInputError("listings file is empty")
	}
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("failed to read CSV header: %v", err))
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(strings.ToLower(name))
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewInputError(fmt.Sprintf("failed to read CSV row: %v", err))
		}

		rec := Record{Extra: make(map[string]string)}
		for i, value := range row {
			if i >= len(columns) {
				break
			}
			value = strings.TrimSpace(value)
			switch columns[i] {
			case FieldStreet:
				rec.Street = value
			case FieldCity:
				rec.City = value
			case FieldNeighbourhood:
				rec.Neighbourhood = value
			case FieldPrice:
				rec.RawPrice = value
			case FieldRooms:
				rec.RawRooms = value
			default:
				rec.Extra[columns[i]] = value
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
