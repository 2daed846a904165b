package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finbook/finbook/pkg/ledger"
	log "github.com/sirupsen/logrus"
)

// CsvReportRendererImpl flattens a month ledger plus its derived totals and
// alerts into the tabular shape consumed by spreadsheet exports.
type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

func (t *CsvReportRendererImpl) RenderMonth(month ledger.MonthKey, m ledger.MonthLedger) (string, error) {

	data := make([][]string, 0, 8+m.Len(ledger.KindIncome)+m.Len(ledger.KindExpense)+m.Len(ledger.KindEvent)+m.Len(ledger.KindGoal))
	data = append(data, []string{"Month", month.String(), "", ""})
	data = append(data, []string{"Section", "Title/Name", "Amount", "Priority/Date"})

	for _, e := range m.Income {
		data = append(data, []string{"Income", e.Title, amountToString(e.Amount), e.Category})
	}
	for _, e := range m.Expenses {
		priority := string(e.Priority)
		if e.Recurring {
			priority += " (recurring)"
		}
		data = append(data, []string{"Expense", e.Title, amountToString(e.Amount), priority})
	}
	for _, e := range m.Events {
		data = append(data, []string{"Event", e.Name, amountToString(e.Budget), e.Date})
	}
	for _, g := range m.Goals {
		data = append(data, []string{"Goal", g.Name, amountToString(g.Target), g.Deadline})
	}

	totals := ComputeTotals(m)
	data = append(data,
		[]string{"Total", "Income", amountToString(totals.Income), ""},
		[]string{"Total", "Expenses", amountToString(totals.Expenses), ""},
		[]string{"Total", "Events", amountToString(totals.Events), ""},
		[]string{"Total", "Goals", amountToString(totals.Goals), ""},
		[]string{"Total", "Remaining", amountToString(totals.Remaining), ""},
	)

	for _, alert := range GenerateAlerts(m) {
		data = append(data, []string{"Alert", alert, "", ""})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func amountToString(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
