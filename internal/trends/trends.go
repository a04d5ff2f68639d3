// Package trends aggregates analysis verdicts per year.
package trends

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/textlens/textlens/internal/detector"
)

// Record is one verdict, or Count verdicts, in a given year. A zero Count
// counts as one.
type Record struct {
	Year  int    `json:"year"`
	Label string `json:"label"`
	Count int    `json:"count,omitempty"`
}

// YearRow is the aggregate for one year.
type YearRow struct {
	Year               int     `json:"year"`
	Human              int     `json:"human_written"`
	Paraphrased        int     `json:"ai_paraphrased"`
	Generated          int     `json:"ai_generated"`
	Total              int     `json:"total"`
	HumanPercent       float64 `json:"human_percent"`
	ParaphrasedPercent float64 `json:"ai_paraphrased_percent"`
	GeneratedPercent   float64 `json:"ai_generated_percent"`
}

// Window restricts aggregation to years in [From, To]. Zero bounds are open.
type Window struct {
	From int
	To   int
}

func (w Window) contains(year int) bool {
	if w.From != 0 && year < w.From {
		return false
	}
	if w.To != 0 && year > w.To {
		return false
	}
	return true
}

// Validate reports an inverted window.
func (w Window) Validate() error {
	if w.From != 0 && w.To != 0 && w.From > w.To {
		return fmt.Errorf("trends: from year %d is after to year %d", w.From, w.To)
	}
	return nil
}

var aliases = map[string]string{
	"human":          detector.LabelHuman,
	"ai_paraphrased": detector.LabelParaphrased,
	"ai_generated":   detector.LabelGenerated,
}

// NormalizeLabel maps short class names to display labels. Unknown labels
// are returned as "".
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	switch label {
	case detector.LabelHuman, detector.LabelParaphrased, detector.LabelGenerated:
		return label
	}
	return aliases[strings.ToLower(label)]
}

// Aggregate counts records per year inside w. Records with labels outside
// the three known classes are ignored. Rows are sorted by year.
func Aggregate(records []Record, w Window) []YearRow {
	byYear := make(map[int]*YearRow)
	for _, rec := range records {
		if !w.contains(rec.Year) {
			continue
		}
		label := NormalizeLabel(rec.Label)
		if label == "" {
			continue
		}
		n := rec.Count
		if n <= 0 {
			n = 1
		}

		row, ok := byYear[rec.Year]
		if !ok {
			row = &YearRow{Year: rec.Year}
			byYear[rec.Year] = row
		}
		switch label {
		case detector.LabelHuman:
			row.Human += n
		case detector.LabelParaphrased:
			row.Paraphrased += n
		case detector.LabelGenerated:
			row.Generated += n
		}
		row.Total += n
	}

	rows := make([]YearRow, 0, len(byYear))
	for _, row := range byYear {
		row.HumanPercent = percent(row.Human, row.Total)
		row.ParaphrasedPercent = percent(row.Paraphrased, row.Total)
		row.GeneratedPercent = percent(row.Generated, row.Total)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Header is the CSV header written by WriteCSV.
var Header = []string{
	"year",
	detector.LabelHuman,
	detector.LabelParaphrased,
	detector.LabelGenerated,
	"total",
	"human_percent",
	"ai_paraphrased_percent",
	"ai_generated_percent",
}

// WriteCSV writes rows with Header. Percentages have two decimals.
func WriteCSV(w io.Writer, rows []YearRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	pct := func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Human),
			strconv.Itoa(r.Paraphrased),
			strconv.Itoa(r.Generated),
			strconv.Itoa(r.Total),
			pct(r.HumanPercent),
			pct(r.ParaphrasedPercent),
			pct(r.GeneratedPercent),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecordsCSV reads year,label rows. A header row is detected and
// skipped; extra columns are ignored. Rows with a non-numeric year are
// reported as errors.
func ReadRecordsCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []Record
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trends: reading csv: %w", err)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("trends: line %d: expected year,label", line)
		}
		year, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("trends: line %d: bad year %q", line, fields[0])
		}
		records = append(records, Record{Year: year, Label: strings.TrimSpace(fields[1])})
	}
	return records, nil
}
