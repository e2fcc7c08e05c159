package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func f(x float64) *float64 { return &x }

func TestStructuredAnswerJSONRoundTrip(t *testing.T) {
	ans := StructuredAnswer{
		Title:              "Tokyo — temperature_2m",
		Answer:             "Warm and humid.",
		KeyNumbers:         []string{"mean: 24.0 °C"},
		Figures:            []Figure{{Variable: "temperature_2m", Caption: "time series", Image: "cGlj"}},
		Method:             "Open-Meteo first.",
		Citations:          []string{"https://open-meteo.com/en/docs"},
		Limitations:        []string{"Model output; station validation not applied."},
		SuggestedFollowups: []string{"Add humidity"},
	}

	b, err := json.Marshal(ans)
	require.NoError(t, err)

	var got StructuredAnswer
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, ans, got)
}

func TestEmptyAnswerMarshalsAllFields(t *testing.T) {
	b, err := json.Marshal(EmptyAnswer())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"title", "answer", "key_numbers", "figures", "method", "citations", "limitations", "suggested_followups"} {
		require.Contains(t, m, key)
	}
	// Collections marshal as [], not null.
	require.NotContains(t, string(b), "null")
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	var ans StructuredAnswer
	ans.Normalize()
	require.NotNil(t, ans.KeyNumbers)
	require.NotNil(t, ans.Figures)
	require.NotNil(t, ans.Citations)
	require.NotNil(t, ans.Limitations)
	require.NotNil(t, ans.SuggestedFollowups)
}

func TestNormalizeEnforcesCaps(t *testing.T) {
	ans := EmptyAnswer()
	for i := 0; i < 12; i++ {
		ans.KeyNumbers = append(ans.KeyNumbers, "n")
		ans.SuggestedFollowups = append(ans.SuggestedFollowups, "s")
		ans.Figures = append(ans.Figures, Figure{})
	}
	ans.Normalize()
	require.Len(t, ans.KeyNumbers, MaxKeyNumbers)
	require.Len(t, ans.Figures, MaxFigures)
	require.Len(t, ans.SuggestedFollowups, MaxFollowups)
}

func TestPlanVariables(t *testing.T) {
	p := Plan{Items: []PlanItem{
		{Requested: "temp", Canonical: "temperature_2m"},
		{Requested: "mystery"},
		{Requested: "rain", Canonical: "rain"},
	}}
	require.Equal(t, []string{"temperature_2m", "rain"}, p.Variables())
}

func TestSeriesNullValuesDecode(t *testing.T) {
	raw := `{"variable":"rain","unit":"mm","times":["2024-06-01T00:00","2024-06-01T01:00"],"values":[0.4,null]}`
	var s Series
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.Equal(t, f(0.4), s.Values[0])
	require.Nil(t, s.Values[1])
}
