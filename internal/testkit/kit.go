package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"tabreport/domain/table"
)

// Testkit builders for tables and fixtures shared by analysis and render
// tests. Tables built here get the same shape the loader produces, so tests
// exercise handlers with realistic input.

// Num builds a numeric cell.
func Num(f float64) table.Value { return table.Number(f) }

// Str builds a string cell.
func Str(s string) table.Value { return table.String(s) }

// Miss builds a missing cell.
func Miss() table.Value { return table.Missing() }

// NumCol builds a numeric series.
func NumCol(name string, vals ...float64) *table.Series {
	values := make([]table.Value, len(vals))
	for i, v := range vals {
		values[i] = table.Number(v)
	}
	return table.NewSeries(name, values)
}

// StrCol builds a string series.
func StrCol(name string, vals ...string) *table.Series {
	values := make([]table.Value, len(vals))
	for i, v := range vals {
		values[i] = table.String(v)
	}
	return table.NewSeries(name, values)
}

// ValCol builds a series from explicit cells, for mixed or partially missing
// columns.
func ValCol(name string, vals ...table.Value) *table.Series {
	return table.NewSeries(name, vals)
}

// Tbl assembles columns into a table.
func Tbl(cols ...*table.Series) *table.Table {
	return table.MustNew(cols...)
}

// SalesConfig configures the synthetic sales dataset generator.
type SalesConfig struct {
	Rows      int
	StartDate time.Time
	Seed      int64
}

// DefaultSalesConfig returns the defaults used by most tests.
func DefaultSalesConfig() SalesConfig {
	return SalesConfig{
		Rows:      200,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}
}

// GenerateSales builds a deterministic synthetic sales table with regional
// and categorical structure, correlated sales/units columns, and a daily
// order_date column. The same seed always yields the same table.
func GenerateSales(cfg SalesConfig) *table.Table {
	rng := rand.New(rand.NewSource(cfg.Seed))
	regions := []string{"North", "South", "East", "West"}
	categories := []string{"Electronics", "Clothing", "Home", "Toys"}

	region := make([]table.Value, cfg.Rows)
	category := make([]table.Value, cfg.Rows)
	sales := make([]table.Value, cfg.Rows)
	units := make([]table.Value, cfg.Rows)
	orderDate := make([]table.Value, cfg.Rows)

	for i := 0; i < cfg.Rows; i++ {
		r := regions[rng.Intn(len(regions))]
		c := categories[rng.Intn(len(categories))]
		u := float64(1 + rng.Intn(20))
		price := 20 + 10*rng.NormFloat64()
		if price < 5 {
			price = 5
		}
		s := math.Round(u*price*100) / 100

		region[i] = table.String(r)
		category[i] = table.String(c)
		sales[i] = table.Number(s)
		units[i] = table.Number(u)
		day := cfg.StartDate.AddDate(0, 0, i%90)
		orderDate[i] = table.String(day.Format("2006-01-02"))
	}

	return table.MustNew(
		table.NewSeries("region", region),
		table.NewSeries("product_category", category),
		table.NewSeries("sales", sales),
		table.NewSeries("units", units),
		table.NewSeries("order_date", orderDate),
	)
}

// CSV renders a table as CSV text, for loader round-trip tests.
func CSV(t *table.Table) string {
	names := t.ColumnNames()
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	out += "\n"
	cols := make([]*table.Series, len(names))
	for i, n := range names {
		col, err := t.Column(n)
		if err != nil {
			panic(fmt.Sprintf("testkit: %v", err))
		}
		cols[i] = col
	}
	for row := 0; row < t.RowCount(); row++ {
		for i, col := range cols {
			if i > 0 {
				out += ","
			}
			out += col.At(row).Str()
		}
		out += "\n"
	}
	return out
}
