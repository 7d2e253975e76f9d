package rubric

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// rubric tables are flat csv, one row per (scale, item):
//
//	scale_name,item,subscale,reverse,min,max,method,tolerance
//
// subscale may be empty (the whole scale is one partition), and
// min/max/method/tolerance are scale-level values repeated per row;
// the first row of a scale wins.
var requiredColumns = []string{"scale_name", "item"}

type columnIndex map[string]int

func (c columnIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	}
	return false, fmt.Errorf("expected a boolean, got %q", s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseTable builds rubrics from the rows of a rubric table, header
// row included. Scale and subscale order follows first appearance so
// scoring output stays deterministic.
func ParseTable(rows [][]string) ([]Rubric, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("rubric table is empty")
	}

	cols := columnIndex{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("rubric table is missing a %q column", name)
		}
	}

	var order []string
	byName := map[string]*Rubric{}
	subscaleOrder := map[string][]string{}
	subscales := map[string]map[string]*Subscale{}

	for n, row := range rows[1:] {
		scaleName := cols.get(row, "scale_name")
		itemName := cols.get(row, "item")
		if scaleName == "" || itemName == "" {
			return nil, fmt.Errorf("rubric row %d has an empty scale_name or item", n+2)
		}

		r, ok := byName[scaleName]
		if !ok {
			min, err := parseFloat(cols.get(row, "min"))
			if err != nil {
				return nil, fmt.Errorf("scale %s: bad min: %w", scaleName, err)
			}
			max, err := parseFloat(cols.get(row, "max"))
			if err != nil {
				return nil, fmt.Errorf("scale %s: bad max: %w", scaleName, err)
			}
			tolerance, err := parseFloat(cols.get(row, "tolerance"))
			if err != nil {
				return nil, fmt.Errorf("scale %s: bad tolerance: %w", scaleName, err)
			}
			r = &Rubric{Name: scaleName, Min: min, Max: max, Tolerance: tolerance}
			byName[scaleName] = r
			order = append(order, scaleName)
			subscales[scaleName] = map[string]*Subscale{}
		}

		subscaleName := cols.get(row, "subscale")
		if subscaleName == "" {
			subscaleName = scaleName
		}
		method, err := ParseMethod(cols.get(row, "method"))
		if err != nil {
			return nil, fmt.Errorf("scale %s: %w", scaleName, err)
		}
		reverse, err := parseBool(cols.get(row, "reverse"))
		if err != nil {
			return nil, fmt.Errorf("scale %s item %s: bad reverse flag: %w", scaleName, itemName, err)
		}

		sub, ok := subscales[scaleName][subscaleName]
		if !ok {
			sub = &Subscale{Name: subscaleName, Method: method}
			subscales[scaleName][subscaleName] = sub
			subscaleOrder[scaleName] = append(subscaleOrder[scaleName], subscaleName)
		} else if sub.Method != method {
			return nil, fmt.Errorf(
				"scale %s subscale %s declares both %s and %s methods",
				scaleName, subscaleName, sub.Method, method,
			)
		}
		sub.Items = append(sub.Items, Item{Pattern: itemName, Reverse: reverse})
	}

	out := make([]Rubric, 0, len(order))
	for _, scaleName := range order {
		r := byName[scaleName]
		for _, subscaleName := range subscaleOrder[scaleName] {
			r.Subscales = append(r.Subscales, *subscales[scaleName][subscaleName])
		}
		out = append(out, *r)
	}
	return out, nil
}

// Parse reads a rubric csv from a reader.
func Parse(r io.Reader) ([]Rubric, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseTable(rows)
}

// ReadFile reads a rubric csv from disk. One file may define several
// scales.
func ReadFile(path string) ([]Rubric, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rubrics, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rubrics, nil
}
