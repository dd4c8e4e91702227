// Package ingest reads tenant spreadsheets exported as CSV into raw
// rows, and writes report exports. It is the excluded-collaborator side
// of the engine's input contract: it promises nothing about the rows
// beyond "string cells keyed by header", and the engine must not assume
// any validation happened here.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/caixaescolar/caixa/internal/common"
	"github.com/caixaescolar/caixa/internal/dre"
	"github.com/caixaescolar/caixa/internal/model"
)

// ReadRows loads a CSV file into raw rows. The delimiter is sniffed
// from the header line: Brazilian exports use ';' as often as ','.
func ReadRows(path string) ([]model.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, common.NewUserError(fmt.Sprintf("%s is empty", path), common.ErrNoHeader)
	}

	maps, err := parseMaps(data, sniffDelimiter(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(maps) == 0 {
		return nil, common.NewUserError(fmt.Sprintf("%s has a header but no data rows", path), common.ErrEmptyFile)
	}

	rows := make([]model.RawRow, len(maps))
	for i, m := range maps {
		rows[i] = model.RawRow(m)
	}
	return rows, nil
}

// readerMu serializes parseMaps: gocsv's reader configuration is
// package-global state, so the SetCSVReader+CSVToMaps pair must not
// interleave across goroutines.
var readerMu sync.Mutex

func parseMaps(data []byte, comma rune) ([]map[string]string, error) {
	readerMu.Lock()
	defer readerMu.Unlock()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = comma
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		r.FieldsPerRecord = -1
		return r
	})
	return gocsv.CSVToMaps(bytes.NewReader(data))
}

// sniffDelimiter picks ';' over ',' when the header line carries more
// semicolons than commas.
func sniffDelimiter(data []byte) rune {
	header := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		header = data[:idx]
	}
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}

// DRELine is one CSV line of the DRE export. Month cells are formatted
// with comma decimals to match the source spreadsheets' locale.
type DRELine struct {
	Section  string `csv:"secao"`
	Category string `csv:"categoria"`
	Jan      string `csv:"jan"`
	Fev      string `csv:"fev"`
	Mar      string `csv:"mar"`
	Abr      string `csv:"abr"`
	Mai      string `csv:"mai"`
	Jun      string `csv:"jun"`
	Jul      string `csv:"jul"`
	Ago      string `csv:"ago"`
	Set      string `csv:"set"`
	Out      string `csv:"out"`
	Nov      string `csv:"nov"`
	Dez      string `csv:"dez"`
	Total    string `csv:"total"`
}

// ExportDRE writes a cash-basis DRE as CSV: every income and expense
// category line, each section's totals, and the profit row.
func ExportDRE(w io.Writer, d dre.DRE) error {
	var lines []DRELine
	appendSection := func(name string, sec dre.Section) {
		for _, l := range sec.Lines {
			lines = append(lines, newDRELine(name, l.Category, l.Months, l.Total))
		}
		lines = append(lines, newDRELine(name, "Total", sec.MonthTotals, sec.Total))
	}
	appendSection("Receitas", d.Income)
	appendSection("Despesas", d.Expense)
	lines = append(lines, newDRELine("Resultado", "Lucro", d.Profit, d.ProfitTotal))

	if err := gocsv.Marshal(&lines, w); err != nil {
		return fmt.Errorf("failed to write DRE export: %w", err)
	}
	return nil
}

func newDRELine(section, category string, months [12]float64, total float64) DRELine {
	return DRELine{
		Section:  section,
		Category: category,
		Jan:      FormatAmount(months[0]),
		Fev:      FormatAmount(months[1]),
		Mar:      FormatAmount(months[2]),
		Abr:      FormatAmount(months[3]),
		Mai:      FormatAmount(months[4]),
		Jun:      FormatAmount(months[5]),
		Jul:      FormatAmount(months[6]),
		Ago:      FormatAmount(months[7]),
		Set:      FormatAmount(months[8]),
		Out:      FormatAmount(months[9]),
		Nov:      FormatAmount(months[10]),
		Dez:      FormatAmount(months[11]),
		Total:    FormatAmount(total),
	}
}

// FormatAmount renders a float cell with comma decimals, matching the
// source spreadsheets' locale.
func FormatAmount(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}
