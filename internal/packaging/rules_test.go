package packaging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestDefault_Table(t *testing.T) {
	rs := Default()
	require.Len(t, rs.Rules(), 3)

	r, ok := rs.Lookup("elote chico")
	require.True(t, ok)
	assert.False(t, r.ReplaceDefault)
	assert.Equal(t, []Consumption{{Material: "elote", Units: 8}}, r.Consumes)

	r, ok = rs.Lookup("  ELOTE ENTERO ")
	require.True(t, ok)
	assert.True(t, r.ReplaceDefault)
	assert.Len(t, r.Consumes, 2)

	_, ok = rs.Lookup("Takis")
	assert.False(t, ok)
}

func TestUsage_DefaultPackaging(t *testing.T) {
	needs, err := Default().Usage([]Line{
		{ItemName: "Takis", Packaging: strp("takis"), Quantity: 2},
		{ItemName: "Boba Taro", Packaging: strp("24clear"), Quantity: 1},
		{ItemName: "Coco Rosa", Packaging: strp("24clear"), Quantity: 3},
		{ItemName: "Toppings", Packaging: nil, Quantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, []Need{
		{Material: "24clear", Units: 4},
		{Material: "takis", Units: 2},
	}, needs)
}

func TestUsage_OuncesAugmentDefault(t *testing.T) {
	needs, err := Default().Usage([]Line{
		{ItemName: "Elote Chico", Packaging: strp("elote chico"), Quantity: 2},
		{ItemName: "Elote Grande", Packaging: strp("elote grande"), Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []Need{
		{Material: "elote", Units: 2*8 + 14},
		{Material: "elote chico", Units: 2},
		{Material: "elote grande", Units: 1},
	}, needs)
}

func TestUsage_ReplaceDefault(t *testing.T) {
	// a stale packaging column must not be charged when the rule replaces it
	needs, err := Default().Usage([]Line{
		{ItemName: "Elote Entero", Packaging: strp("elote entero"), Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []Need{
		{Material: "charolas", Units: 3},
		{Material: "elote entero", Units: 3},
	}, needs)
}

func TestUsage_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := Default().Usage([]Line{{ItemName: "Takis", Packaging: strp("takis"), Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestLookup_UnicodeNormalization(t *testing.T) {
	rs, err := NewRuleSet([]Rule{{
		Item:     "Chamoyada Sand\u00eda", // precomposed
		Consumes: []Consumption{{Material: "20clear", Units: 1}},
	}})
	require.NoError(t, err)

	_, ok := rs.Lookup("chamoyada sandi\u0301a") // i + combining acute
	assert.True(t, ok)
}

func TestParse_Validation(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "rules:\n  - item: A\n    consume:\n      - material: x\n        units: 1\n",
		"missing item":   "rules:\n  - consumes:\n      - material: x\n        units: 1\n",
		"no consumption": "rules:\n  - item: A\n",
		"zero units":     "rules:\n  - item: A\n    consumes:\n      - material: x\n        units: 0\n",
		"no material":    "rules:\n  - item: A\n    consumes:\n      - units: 2\n",
		"duplicate item": "rules:\n  - item: A\n    consumes:\n      - material: x\n        units: 1\n  - item: a\n    consumes:\n      - material: y\n        units: 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	rs, err := Load("")
	require.NoError(t, err)
	assert.Len(t, rs.Rules(), 3)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - item: Crepas\n    consumes:\n      - material: charolas\n        units: 2\n"), 0o644))
	rs, err = Load(path)
	require.NoError(t, err)
	r, ok := rs.Lookup("crepas")
	require.True(t, ok)
	assert.Equal(t, int64(2), r.Consumes[0].Units)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteTable(&buf))
	assert.Equal(t,
		"Elote Chico -> default + 8 x elote\n"+
			"Elote Grande -> default + 14 x elote\n"+
			"Elote Entero -> 1 x elote entero + 1 x charolas\n",
		buf.String())
}
