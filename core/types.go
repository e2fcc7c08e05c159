package core

import "encoding/json"

// TimeMode selects which provider dataset a query runs against.
type TimeMode string

const (
	ModeForecast   TimeMode = "forecast"
	ModeHistorical TimeMode = "historical"
	ModeCurrent    TimeMode = "current"
)

// Limits imposed by the answer schema.
const (
	MaxKeyNumbers = 8
	MaxFigures    = 4
	MaxFollowups  = 5
)

// Location is a resolved place as returned by the planning service.
type Location struct {
	Name    string    `json:"name,omitempty"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	AreaKm2 float64   `json:"area_km2,omitempty"`
	BBox    []float64 `json:"bbox,omitempty"`
}

// Window bounds the data window of an execute result (ISO timestamps).
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PlanItem pairs a requested variable token with its canonical name.
type PlanItem struct {
	Requested string `json:"requested,omitempty"`
	Canonical string `json:"canonical,omitempty"`
}

// PlanMeta carries optional planner metadata.
type PlanMeta struct {
	HistoricalWindow *Window `json:"historical_window,omitempty"`
}

// Plan describes what the planning service decided to fetch.
type Plan struct {
	Items []PlanItem `json:"items"`
	Meta  *PlanMeta  `json:"meta,omitempty"`
}

// Variables returns the canonical names of the planned items, in order.
func (p Plan) Variables() []string {
	out := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		if it.Canonical != "" {
			out = append(out, it.Canonical)
		}
	}
	return out
}

// Series is a point time series for one variable. Values may contain
// nulls for missing samples; they are dropped before statistics.
type Series struct {
	Variable string     `json:"variable"`
	Unit     string     `json:"unit"`
	Times    []string   `json:"times"`
	Values   []*float64 `json:"values"`
}

// Aggregation is an indexed mean ± IQR pair (diurnal or spatial).
type Aggregation struct {
	Index []int      `json:"index"`
	Mean  []*float64 `json:"mean"`
	IQR   []*float64 `json:"iqr"`
}

// Aggregate is a regional summary for one variable.
type Aggregate struct {
	Variable    string      `json:"variable"`
	Unit        string      `json:"unit"`
	Aggregation Aggregation `json:"aggregation"`
}

// LongTermBlock holds the long-term mean and spread of a climatology.
type LongTermBlock struct {
	Mean *float64 `json:"mean,omitempty"`
	P10  *float64 `json:"p10,omitempty"`
	P90  *float64 `json:"p90,omitempty"`
}

// CycleBlock holds a per-month or per-hour mean cycle.
type CycleBlock struct {
	Mean []*float64 `json:"mean,omitempty"`
}

// ClimatologyBlocks groups the statistical blocks of a climatology.
// Spatial bands are passed through untouched.
type ClimatologyBlocks struct {
	LongTerm LongTermBlock   `json:"long_term"`
	Seasonal CycleBlock      `json:"seasonal"`
	Diurnal  CycleBlock      `json:"diurnal"`
	Spatial  json.RawMessage `json:"spatial,omitempty"`
}

// Climatology is a multi-block long-term summary for one variable.
type Climatology struct {
	Variable string            `json:"variable"`
	Unit     string            `json:"unit"`
	Blocks   ClimatologyBlocks `json:"blocks"`
}

// ExecuteResult is the raw output of the planning service for one query.
type ExecuteResult struct {
	Series        []Series      `json:"series,omitempty"`
	Aggregates    []Aggregate   `json:"aggregates,omitempty"`
	Climatologies []Climatology `json:"climatologies,omitempty"`
	Citations     []string      `json:"citations,omitempty"`
	Limitations   []string      `json:"limitations,omitempty"`
	Window        *Window       `json:"window,omitempty"`
}

// Figure is a rendered chart attached to an answer.
type Figure struct {
	Variable string `json:"variable"`
	Caption  string `json:"caption"`
	Image    string `json:"image"` // base64-encoded PNG
}

// StructuredAnswer is the fixed output contract. Every field must be
// present and type-correct even when no data exists; downstream
// validation depends on it.
type StructuredAnswer struct {
	Title              string   `json:"title"`
	Answer             string   `json:"answer"`
	KeyNumbers         []string `json:"key_numbers"`
	Figures            []Figure `json:"figures"`
	Method             string   `json:"method"`
	Citations          []string `json:"citations"`
	Limitations        []string `json:"limitations"`
	SuggestedFollowups []string `json:"suggested_followups"`
}

// EmptyAnswer returns a minimal schema-valid answer with every field
// present but empty.
func EmptyAnswer() StructuredAnswer {
	return StructuredAnswer{
		KeyNumbers:         []string{},
		Figures:            []Figure{},
		Citations:          []string{},
		Limitations:        []string{},
		SuggestedFollowups: []string{},
	}
}

// Normalize replaces nil collections with empty ones and enforces the
// schema caps, so the answer always marshals with every field present.
func (a *StructuredAnswer) Normalize() {
	if a.KeyNumbers == nil {
		a.KeyNumbers = []string{}
	}
	if a.Figures == nil {
		a.Figures = []Figure{}
	}
	if a.Citations == nil {
		a.Citations = []string{}
	}
	if a.Limitations == nil {
		a.Limitations = []string{}
	}
	if a.SuggestedFollowups == nil {
		a.SuggestedFollowups = []string{}
	}
	if len(a.KeyNumbers) > MaxKeyNumbers {
		a.KeyNumbers = a.KeyNumbers[:MaxKeyNumbers]
	}
	if len(a.Figures) > MaxFigures {
		a.Figures = a.Figures[:MaxFigures]
	}
	if len(a.SuggestedFollowups) > MaxFollowups {
		a.SuggestedFollowups = a.SuggestedFollowups[:MaxFollowups]
	}
}
