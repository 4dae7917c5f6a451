// Package export renders tabular request listings into downloadable documents.
package export

import "fmt"

// Column describes one exported field. Weight scales the PDF column width; zero means 1.
type Column struct {
	Key    string
	Title  string
	Weight float64
}

// Dataset defines tabular export content.
type Dataset struct {
	Columns []Column
	Rows    []map[string]string
}

func (d Dataset) validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("dataset requires at least one column")
	}
	return nil
}

func (d Dataset) totalWeight() float64 {
	var total float64
	for _, col := range d.Columns {
		total += col.weight()
	}
	return total
}

func (c Column) weight() float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}

func (c Column) title() string {
	if c.Title == "" {
		return c.Key
	}
	return c.Title
}
