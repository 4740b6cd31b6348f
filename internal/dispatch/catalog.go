package dispatch

import (
	"time"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dataset"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/forecast"
)

// NewCatalog wires the fixed query catalogue to one session's datasets.
// fc may be nil before the forecast upload and master before the master
// upload; handlers answer with a typed outcome instead of failing.
func NewCatalog(fc, master *dataset.Dataset, now func() time.Time) *Table {
	if now == nil {
		now = time.Now
	}

	t := NewTable()

	t.Register(Func{
		Name:        "forecast_lookup",
		Description: "Get forecasted demand in units for a style collection in a specific month, optionally narrowed to one color.",
		Params: []Param{
			{Name: "collection", Type: TypeString, Required: true, Description: "Style collection name, e.g. 'Accolade'"},
			{Name: "month", Type: TypeString, Required: true, Description: "Full month name, e.g. 'September'"},
			{Name: "year", Type: TypeInteger, Required: true, Description: "Four-digit year, e.g. 2026"},
			{Name: "color", Type: TypeString, Required: false, Description: "Optional color filter, e.g. 'Navy'"},
		},
		Handle: func(a Args) forecast.Result {
			if fc == nil {
				return noForecast()
			}
			return forecast.Lookup(fc, a.String("collection"), a.String("month"), a.Int("year", 0), a.String("color"))
		},
	})

	t.Register(Func{
		Name:        "total_forecast",
		Description: "Get total forecasted demand for a style collection summed across every forecast month.",
		Params: []Param{
			{Name: "collection", Type: TypeString, Required: true, Description: "Style collection name"},
		},
		Handle: func(a Args) forecast.Result {
			if fc == nil {
				return noForecast()
			}
			return forecast.Total(fc, a.String("collection"))
		},
	})

	t.Register(Func{
		Name:        "top_collection",
		Description: "Find the style collection with the highest forecasted demand in a specific month.",
		Params: []Param{
			{Name: "month", Type: TypeString, Required: true, Description: "Full month name"},
			{Name: "year", Type: TypeInteger, Required: true, Description: "Four-digit year"},
		},
		Handle: func(a Args) forecast.Result {
			if fc == nil {
				return noForecast()
			}
			return forecast.TopCollection(fc, a.String("month"), a.Int("year", 0))
		},
	})

	t.Register(Func{
		Name:        "top_styles",
		Description: "List the top 3 styles of a collection by forecasted demand in a specific month, optionally narrowed to one color.",
		Params: []Param{
			{Name: "collection", Type: TypeString, Required: true, Description: "Style collection name"},
			{Name: "month", Type: TypeString, Required: true, Description: "Full month name"},
			{Name: "year", Type: TypeInteger, Required: true, Description: "Four-digit year"},
			{Name: "color", Type: TypeString, Required: false, Description: "Optional color filter"},
		},
		Handle: func(a Args) forecast.Result {
			if fc == nil {
				return noForecast()
			}
			return forecast.TopStyles(fc, a.String("collection"), a.String("month"), a.Int("year", 0), a.String("color"))
		},
	})

	t.Register(Func{
		Name:        "forecast_trend",
		Description: "Show month-over-month forecast development for a style collection across all forecast months, as absolute change or percent change.",
		Params: []Param{
			{Name: "collection", Type: TypeString, Required: true, Description: "Style collection name"},
			{Name: "mode", Type: TypeString, Required: false, Description: "'percent' for percent change; default is absolute change"},
		},
		Handle: func(a Args) forecast.Result {
			if fc == nil {
				return noForecast()
			}
			return forecast.Trend(fc, a.String("collection"), a.String("mode") == "percent")
		},
	})

	t.Register(Func{
		Name:        "sustainable_styles",
		Description: "List styles from the style master whose sustainable content percentage meets a threshold.",
		Params: []Param{
			{Name: "threshold", Type: TypeInteger, Required: false, Description: "Minimum sustainability percentage; default 50"},
		},
		Handle: func(a Args) forecast.Result {
			if master == nil {
				return noMaster()
			}
			return forecast.SustainableStyles(master, float64(a.Int("threshold", forecast.DefaultSustainabilityThreshold)))
		},
	})

	t.Register(Func{
		Name:        "pending_lab_dips",
		Description: "List styles from the style master whose lab dip is still pending approval.",
		Handle: func(Args) forecast.Result {
			if master == nil {
				return noMaster()
			}
			return forecast.PendingLabDips(master)
		},
	})

	t.Register(Func{
		Name:        "expiring_shelf_life",
		Description: "List styles from the style master whose shelf life ends within the next 30 days.",
		Handle: func(Args) forecast.Result {
			if master == nil {
				return noMaster()
			}
			return forecast.ExpiringShelfLife(master, now())
		},
	})

	return t
}

func noForecast() forecast.Result {
	return forecast.NotFound("no forecast file is loaded; upload one first")
}

func noMaster() forecast.Result {
	return forecast.NotFound("no style master file is loaded; upload one first")
}
