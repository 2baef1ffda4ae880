package export

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// AddRow appends values in header order; missing trailing values are left blank.
func (d *Dataset) AddRow(values ...string) {
	row := make(map[string]string, len(d.Headers))
	for i, h := range d.Headers {
		if i < len(values) {
			row[h] = values[i]
		}
	}
	d.Rows = append(d.Rows, row)
}
