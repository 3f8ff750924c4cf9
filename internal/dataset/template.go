package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TemplatePair is one (county, week) prediction slot from the submission
// template. The ID column encodes both as "<County>_Week_<N>".
type TemplatePair struct {
	ID     string
	County string
	Week   int
}

// LoadTemplate reads the submission template and returns its prediction
// slots in file order.
func LoadTemplate(path string) ([]TemplatePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s (expected a CSV with an ID column like Kiambu_Week_50): %v",
			ErrDataLoad, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no header row: %v", ErrDataLoad, path, err)
	}
	idCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "ID" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s is missing column \"ID\" (header: %v)", ErrDataLoad, path, header)
	}

	var pairs []TemplatePair
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrDataLoad, path, line, err)
		}
		pair, err := ParseTemplateID(strings.TrimSpace(row[idCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrDataLoad, path, line, err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// ParseTemplateID splits "<County>_Week_<N>" into its parts. County names
// may themselves contain hyphens (Uasin-Gishu), so the split key is the
// literal "_Week_" marker.
func ParseTemplateID(id string) (TemplatePair, error) {
	county, weekStr, ok := strings.Cut(id, "_Week_")
	if !ok || county == "" {
		return TemplatePair{}, fmt.Errorf("bad template ID %q", id)
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil || week < 1 || week > 52 {
		return TemplatePair{}, fmt.Errorf("bad week in template ID %q", id)
	}
	return TemplatePair{ID: id, County: county, Week: week}, nil
}
