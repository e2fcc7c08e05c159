package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/writer"
)

// DefaultPlaces is the sweep's place vocabulary: cities plus whole
// countries to exercise the regional (bbox) path.
var DefaultPlaces = []string{
	"Tokyo", "Kyoto", "Osaka", "Sapporo", "Seoul", "Bangkok", "Singapore", "Kuala Lumpur",
	"Jakarta", "Manila", "Hanoi", "Ho Chi Minh City", "Taipei", "Hong Kong", "Beijing", "Shanghai",
	"New Delhi", "Mumbai", "Bengaluru", "Chennai", "Kolkata", "Hyderabad", "Kathmandu",
	"London", "Paris", "Berlin", "Rome", "Madrid", "Barcelona", "Lisbon", "Amsterdam",
	"Cairo", "Casablanca", "Lagos", "Accra", "Nairobi", "Addis Ababa",
	"New York", "Boston", "Chicago", "Miami", "Atlanta", "Houston", "Dallas", "Seattle",
	"San Francisco", "Los Angeles", "Vancouver", "Toronto", "Mexico City",
	"Bogota", "Quito", "Lima", "Santiago", "Buenos Aires", "Sao Paulo", "Rio de Janeiro",
	"Sydney", "Melbourne", "Brisbane", "Perth", "Wellington", "Auckland",
	"India", "China", "USA", "Brazil", "Canada", "Australia", "Indonesia", "Japan",
	"United Kingdom", "France", "Germany", "Italy", "Spain", "Kenya", "Ethiopia",
	"Morocco", "South Africa", "Norway", "Mexico", "Argentina", "Chile", "Russia",
	"Saudi Arabia", "Egypt", "Nigeria",
}

// DefaultBundles are the free-text variable bundles swept per place.
var DefaultBundles = [][]string{
	{"temperature"}, {"temperature", "typical"}, {"air temp", "daily average"},
	{"winds"}, {"wind speed", "gusts"}, {"winds", "clouds", "rainfall"},
	{"precipitation"}, {"rain", "snow"}, {"rainfall", "intensity"},
	{"humidity"}, {"relative humidity", "dew point"},
	{"cloud cover"}, {"clouds", "sunshine"}, {"visibility", "fog"},
	{"soil moisture"}, {"soil moisture", "temperature"},
	{"solar radiation"}, {"shortwave radiation"},
	{"pressure"}, {"sea level pressure", "mslp"},
	{"temperature in Fahrenheit", "wind in knots"},
	{"air quality", "PM2.5"}, {"sea ice", "extent"},
}

var allModes = []core.TimeMode{core.ModeForecast, core.ModeHistorical, core.ModeCurrent}

// regionalAreaKm2 is the area above which a place is planned as a bbox
// region instead of a point.
const regionalAreaKm2 = 5e4

type combo struct {
	place  string
	bundle []string
	mode   core.TimeMode
}

type geometry struct {
	Type string    `json:"type"`
	Lat  float64   `json:"lat,omitempty"`
	Lon  float64   `json:"lon,omitempty"`
	BBox []float64 `json:"bbox,omitempty"`
}

// Builder sweeps places x variable bundles x time modes against an MCP
// base URL and writes one training record per successful combo.
// Per-combo failures are logged and skipped, never fatal.
type Builder struct {
	MCP    string
	Client *http.Client
	Logger *zap.Logger
	Writer *JSONLWriter

	Places      []string
	Bundles     [][]string
	Modes       []core.TimeMode
	MaxExamples int
	Concurrency int
	Shuffle     bool
	Seed        int64

	// geocodeLimiter throttles /resolve_location (Nominatim upstream
	// tolerates about 1 request per second).
	geocodeLimiter *rate.Limiter
}

// NewBuilder creates a sweep builder with the default vocabulary.
func NewBuilder(mcpBase string, w *JSONLWriter, logger *zap.Logger) *Builder {
	return &Builder{
		MCP:            mcpBase,
		Client:         &http.Client{Timeout: 180 * time.Second},
		Logger:         logger,
		Writer:         w,
		Places:         DefaultPlaces,
		Bundles:        DefaultBundles,
		Modes:          allModes,
		MaxExamples:    1000,
		Concurrency:    4,
		Shuffle:        true,
		Seed:           13,
		geocodeLimiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Run executes the sweep and returns the number of records written.
func (b *Builder) Run(ctx context.Context) (int, error) {
	combos := b.combos()

	caps, err := b.postJSON(ctx, "/describe_capabilities", map[string]any{})
	if err != nil {
		return 0, fmt.Errorf("describe capabilities: %w", err)
	}

	locations := b.resolvePlaces(ctx, combos)

	det := &writer.Deterministic{Logger: b.Logger}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Concurrency)
	var mu sync.Mutex
	written := 0

	for _, c := range combos {
		c := c
		loc, ok := locations[c.place]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := b.buildOne(gctx, caps, c, loc, det); err != nil {
				b.Logger.Warn("combo_skipped",
					zap.String("place", c.place),
					zap.Strings("bundle", c.bundle),
					zap.String("mode", string(c.mode)),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			written++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return written, err
	}

	b.Logger.Info("sweep_done", zap.Int("written", written), zap.Int("combos", len(combos)))
	return written, nil
}

func (b *Builder) combos() []combo {
	combos := make([]combo, 0, len(b.Places)*len(b.Bundles)*len(b.Modes))
	for _, p := range b.Places {
		for _, vb := range b.Bundles {
			for _, m := range b.Modes {
				combos = append(combos, combo{place: p, bundle: vb, mode: m})
			}
		}
	}
	if b.Shuffle {
		rng := rand.New(rand.NewSource(b.Seed))
		rng.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
	}
	if len(combos) > b.MaxExamples {
		combos = combos[:b.MaxExamples]
	}
	return combos
}

// resolvePlaces geocodes each unique place once, rate limited; failures
// drop the place from the sweep.
func (b *Builder) resolvePlaces(ctx context.Context, combos []combo) map[string]core.Location {
	out := make(map[string]core.Location)
	seen := make(map[string]struct{})
	for _, c := range combos {
		if _, ok := seen[c.place]; ok {
			continue
		}
		seen[c.place] = struct{}{}

		if err := b.geocodeLimiter.Wait(ctx); err != nil {
			return out
		}
		raw, err := b.postJSON(ctx, "/resolve_location", map[string]any{"query": c.place})
		if err != nil {
			b.Logger.Warn("geocode_skipped", zap.String("place", c.place), zap.Error(err))
			continue
		}
		var loc core.Location
		if err := json.Unmarshal(raw, &loc); err != nil {
			b.Logger.Warn("geocode_skipped", zap.String("place", c.place), zap.Error(err))
			continue
		}
		out[c.place] = loc
	}
	b.Logger.Info("geocode_done", zap.Int("resolved", len(out)), zap.Int("requested", len(seen)))
	return out
}

func (b *Builder) buildOne(ctx context.Context, caps json.RawMessage, c combo, loc core.Location, det *writer.Deterministic) error {
	geom := geometry{Type: "Point", Lat: loc.Lat, Lon: loc.Lon}
	if loc.AreaKm2 >= regionalAreaKm2 && len(loc.BBox) == 4 {
		geom = geometry{Type: "BBox", BBox: loc.BBox}
	}

	planRaw, err := b.postJSON(ctx, "/plan_query", map[string]any{
		"capabilities":   json.RawMessage(caps),
		"place_geometry": geom,
		"time_mode":      c.mode,
		"variables":      c.bundle,
	})
	if err != nil {
		return fmt.Errorf("plan query: %w", err)
	}

	exRaw, err := b.postJSON(ctx, "/execute_plan", map[string]any{"plan": json.RawMessage(planRaw)})
	if err != nil {
		return fmt.Errorf("execute plan: %w", err)
	}

	var plan core.Plan
	if err := json.Unmarshal(planRaw, &plan); err != nil {
		return fmt.Errorf("decode plan: %w", err)
	}
	var ex core.ExecuteResult
	if err := json.Unmarshal(exRaw, &ex); err != nil {
		return fmt.Errorf("decode execute result: %w", err)
	}

	answer := det.Write(ctx, core.WriteRequest{
		Place:    c.place,
		TimeMode: c.mode,
		Plan:     plan,
		Result:   ex,
	})

	return b.Writer.Append(Record{
		System: writer.SystemPrompt,
		Input: RecordInput{
			Place:         c.place,
			TimeMode:      c.mode,
			Plan:          planRaw,
			ExecuteResult: exRaw,
			TimestampUTC:  time.Now().UTC().Format(time.RFC3339),
		},
		Output: answer,
	})
}

// postJSON posts a payload with retries and multiplicative backoff.
func (b *Builder) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	const attempts = 4
	var lastErr error
	for k := 0; k < attempts; k++ {
		if k > 0 {
			sleep := time.Duration(math.Pow(1.2, float64(k)) * float64(time.Second))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleep):
			}
		}
		raw, err := b.postOnce(ctx, path, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		b.Logger.Warn("post_retry", zap.String("path", path), zap.Int("attempt", k+1), zap.Error(err))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("failed POST %s: %w", path, lastErr)
}

func (b *Builder) postOnce(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.MCP+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 256))
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
