package report

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/streetbite/truck-pipeline/internal/repository"
)

// SummarySource answers the aggregate queries the report needs. The
// gorm implementation is repository.TransactionRepository.
type SummarySource interface {
	TotalForDay(ctx context.Context, day time.Time) (float64, error)
	SummariesForDay(ctx context.Context, day time.Time) ([]repository.TruckSummary, error)
}

// Report is one day's sales summary.
type Report struct {
	Day        civil.Date
	TotalValue float64
	Trucks     []repository.TruckSummary
}

// Build queries the ledger for the given day's aggregates.
func Build(ctx context.Context, src SummarySource, day civil.Date) (Report, error) {
	start := day.In(time.UTC)

	total, err := src.TotalForDay(ctx, start)
	if err != nil {
		return Report{}, fmt.Errorf("build report for %s: %w", day, err)
	}
	trucks, err := src.SummariesForDay(ctx, start)
	if err != nil {
		return Report{}, fmt.Errorf("build report for %s: %w", day, err)
	}

	return Report{Day: day, TotalValue: total, Trucks: trucks}, nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        table {
            font-family: Arial, Helvetica, sans-serif;
            border-collapse: collapse;
            width: 65%;
            margin-left: auto;
            margin-right: auto;
        }
        table td, table th {
            border: 1px solid #ddd;
            padding: 8px;
        }
        table tr:nth-child(even) {
            background-color: #f2f2f2;
        }
        table tr:hover {
            background-color: #ddd;
        }
        table th {
            padding-top: 12px;
            padding-bottom: 12px;
            text-align: left;
            background-color: #ff8800;
            color: white;
        }
        h1, h2, h3 {
            font-family: Arial, Helvetica, sans-serif;
            width: 100%;
            text-align: center;
        }
    </style>
</head>
<body>
    <h1>Daily Trucks Data Report</h1>
    <h2>{{.Day}}</h2>
    <h2>Total transaction value: £{{printf "%.2f" .TotalValue}}</h2>
    <h3>Total transaction value per truck:</h3>
    <table>
        <tr><th>truck_id</th><th>total - £</th></tr>
        {{range .Trucks}}<tr><td>{{.TruckID}}</td><td>{{printf "%.2f" .Total}}</td></tr>
        {{end}}
    </table>
    <h3>Total transactions per truck:</h3>
    <table>
        <tr><th>truck_id</th><th>transactions</th></tr>
        {{range .Trucks}}<tr><td>{{.TruckID}}</td><td>{{.TransactionCount}}</td></tr>
        {{end}}
    </table>
</body>
</html>
`))

// RenderHTML produces the styled report document.
func (r Report) RenderHTML() (string, error) {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}
