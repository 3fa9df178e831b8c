package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses a CSV file into a typed Frame. The first record is the
// header. A column is numeric when every non-empty cell parses as a float and
// at least one cell is non-empty; everything else is kept as strings. Empty
// cells become nulls (NaN / "").
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	return readCSV(bufio.NewReader(file))
}

func readCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset: no header record")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		if header[i] == "" {
			return nil, fmt.Errorf("header column %d has empty name", i)
		}
	}

	cells := make([][]string, len(header))
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.Reader enforces a fixed field count; ragged rows land here.
			return nil, fmt.Errorf("read record: %w", err)
		}
		for i := range header {
			cells[i] = append(cells[i], strings.TrimSpace(rec[i]))
		}
	}

	frame := NewFrame()
	for i, name := range header {
		if err := frame.AddColumn(inferColumn(name, cells[i])); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// inferColumn types a raw column: numeric if all non-empty cells parse.
func inferColumn(name string, raw []string) *Column {
	numeric := false
	nums := make([]float64, len(raw))
	for i, s := range raw {
		if s == "" {
			nums[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return &Column{Name: name, Kind: KindString, Strs: raw}
		}
		nums[i] = v
		numeric = true
	}
	if !numeric {
		// All cells empty: keep as an all-null string column rather than
		// guessing a numeric type that was never observed.
		return &Column{Name: name, Kind: KindString, Strs: raw}
	}
	return &Column{Name: name, Kind: KindNumeric, Nums: nums}
}
