package trends

import (
	"bytes"
	"strings"
	"testing"

	"github.com/textlens/textlens/internal/detector"
)

func TestAggregate(t *testing.T) {
	records := []Record{
		{Year: 2021, Label: "human"},
		{Year: 2021, Label: "human"},
		{Year: 2021, Label: "ai_generated"},
		{Year: 2021, Label: "ai_paraphrased"},
		{Year: 2020, Label: detector.LabelHuman, Count: 3},
		{Year: 2020, Label: "Error"},
		{Year: 2020, Label: "unknown"},
	}

	rows := Aggregate(records, Window{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Year != 2020 || rows[0].Human != 3 || rows[0].Total != 3 || rows[0].HumanPercent != 100 {
		t.Errorf("2020 row = %+v", rows[0])
	}
	r := rows[1]
	if r.Year != 2021 || r.Human != 2 || r.Paraphrased != 1 || r.Generated != 1 || r.Total != 4 {
		t.Errorf("2021 row = %+v", r)
	}
	if r.HumanPercent != 50 || r.GeneratedPercent != 25 || r.ParaphrasedPercent != 25 {
		t.Errorf("2021 percentages = %+v", r)
	}
}

func TestAggregateWindow(t *testing.T) {
	records := []Record{
		{Year: 2019, Label: "human"},
		{Year: 2020, Label: "human"},
		{Year: 2021, Label: "human"},
		{Year: 2022, Label: "human"},
	}
	rows := Aggregate(records, Window{From: 2020, To: 2021})
	if len(rows) != 2 || rows[0].Year != 2020 || rows[1].Year != 2021 {
		t.Errorf("rows = %+v", rows)
	}

	if err := (Window{From: 2022, To: 2020}).Validate(); err == nil {
		t.Error("expected error for inverted window")
	}
}

func TestAggregateEmpty(t *testing.T) {
	if rows := Aggregate(nil, Window{}); len(rows) != 0 {
		t.Errorf("expected no rows, got %+v", rows)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := Aggregate([]Record{
		{Year: 2023, Label: "human"},
		{Year: 2023, Label: "ai_generated"},
		{Year: 2023, Label: "ai_generated"},
	}, Window{})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "year,Human-written,AI-paraphrased,AI-generated,total,human_percent,ai_paraphrased_percent,ai_generated_percent\n" +
		"2023,1,0,2,3,33.33,0.00,66.67\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestReadRecordsCSV(t *testing.T) {
	input := "year,label\n2020,human\n2021, ai_generated\n"
	records, err := ReadRecordsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRecordsCSV: %v", err)
	}
	if len(records) != 2 || records[1].Year != 2021 || records[1].Label != "ai_generated" {
		t.Errorf("records = %+v", records)
	}

	if _, err := ReadRecordsCSV(strings.NewReader("2020,human\nabc,human\n")); err == nil {
		t.Error("expected error for bad year after first line")
	}
	if _, err := ReadRecordsCSV(strings.NewReader("2020\n")); err == nil {
		t.Error("expected error for missing label column")
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := map[string]string{
		"human":                   detector.LabelHuman,
		"AI_Generated":            detector.LabelGenerated,
		detector.LabelParaphrased: detector.LabelParaphrased,
		"Error":                   "",
	}
	for in, want := range tests {
		if got := NormalizeLabel(in); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
