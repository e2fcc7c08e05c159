package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mitraarka27/Meteo-Chat/core"
	"github.com/mitraarka27/Meteo-Chat/writer"
)

func TestJSONLWriterAppend(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)

	ans := core.EmptyAnswer()
	ans.Title = "rec"
	require.NoError(t, w.Append(Record{
		System: writer.SystemPrompt,
		Input: RecordInput{
			Place:         "Tokyo",
			TimeMode:      core.ModeForecast,
			Plan:          json.RawMessage(`{"items":[]}`),
			ExecuteResult: json.RawMessage(`{"series":[]}`),
			TimestampUTC:  "2024-06-01T00:00:00Z",
		},
		Output: ans,
	}))
	require.NoError(t, w.Append(Record{Output: core.EmptyAnswer()}))
	require.Equal(t, 2, w.Count())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	require.Equal(t, "Tokyo", rec.Input.Place)
	require.Equal(t, "rec", rec.Output.Title)
	require.Equal(t, writer.SystemPrompt, rec.System)
	// Plan and execute result survive verbatim.
	require.JSONEq(t, `{"items":[]}`, string(rec.Input.Plan))
}

func TestBuilderRun(t *testing.T) {
	mcp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/describe_capabilities":
			w.Write([]byte(`{"variables": ["temperature_2m"]}`))
		case "/resolve_location":
			w.Write([]byte(`{"name":"Tokyo","lat":35.7,"lon":139.7,"area_km2":2194}`))
		case "/plan_query":
			w.Write([]byte(`{"items":[{"requested":"temperature","canonical":"temperature_2m"}]}`))
		case "/execute_plan":
			w.Write([]byte(`{"series":[{"variable":"temperature_2m","unit":"°C","times":["2024-06-01T00:00"],"values":[21.5]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer mcp.Close()

	var buf bytes.Buffer
	jw := NewJSONLWriter(&buf)
	b := NewBuilder(mcp.URL, jw, zap.NewNop())
	b.Places = []string{"Tokyo"}
	b.Bundles = [][]string{{"temperature"}}
	b.Modes = []core.TimeMode{core.ModeForecast, core.ModeCurrent}
	b.Shuffle = false

	written, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, written)
	require.Equal(t, 2, jw.Count())

	var rec Record
	first := strings.SplitN(strings.TrimSpace(buf.String()), "\n", 2)[0]
	require.NoError(t, json.Unmarshal([]byte(first), &rec))
	require.Equal(t, "Tokyo", rec.Input.Place)
	require.NotEmpty(t, rec.Output.Title)
	require.NotEmpty(t, rec.Output.Answer)
}

func TestBuilderRunSkipsFailingCombos(t *testing.T) {
	mcp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/describe_capabilities":
			w.Write([]byte(`{"variables": []}`))
		case "/resolve_location":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer mcp.Close()

	var buf bytes.Buffer
	b := NewBuilder(mcp.URL, NewJSONLWriter(&buf), zap.NewNop())
	b.Places = []string{"Atlantis"}
	b.Bundles = [][]string{{"temperature"}}
	b.Modes = []core.TimeMode{core.ModeCurrent}

	written, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, written)
}

func TestBuilderMaxExamples(t *testing.T) {
	b := NewBuilder("http://unused", nil, zap.NewNop())
	b.MaxExamples = 10
	require.Len(t, b.combos(), 10)
}
