package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilens/nutrilens/internal/analyzer"
	"github.com/nutrilens/nutrilens/internal/dataset"
)

const testCSV = `Recipe_name,Diet_type,Cuisine_type,Protein(g),Carbs(g),Fat(g)
Pasta Primavera,vegan,italian,10,20,5
Bean Chili,vegan,mexican,30,10,2
Butter Chicken,keto,italian,5,5,25
Lentil Soup,vegan,indian,18,25,4
`

func testAnalyzer(t *testing.T, csv string) *analyzer.Analyzer {
	t.Helper()
	ds, err := dataset.Load(strings.NewReader(csv))
	require.NoError(t, err)
	return analyzer.New(ds)
}

func TestRender(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	var out bytes.Buffer
	Render(&out, a)

	snaps.MatchSnapshot(t, out.String())
}

func TestRenderSections(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	var out bytes.Buffer
	Render(&out, a)
	text := out.String()

	assert.Contains(t, text, "COMPREHENSIVE DIET ANALYSIS REPORT")
	assert.Contains(t, text, "Total recipes: 4")
	assert.Contains(t, text, "HIGHEST PROTEIN CONTENT: vegan")
	assert.Contains(t, text, "Bean Chili: 30.00g protein")
	assert.Contains(t, text, "Analysis complete.")
}

func TestRenderEmptyDataset(t *testing.T) {
	var out bytes.Buffer
	Render(&out, analyzer.New(nil))
	text := out.String()

	assert.Contains(t, text, "Total recipes: 0")
	assert.Contains(t, text, "No data available")
}

func TestRenderDeterministic(t *testing.T) {
	a := testAnalyzer(t, testCSV)

	var first, second bytes.Buffer
	Render(&first, a)
	Render(&second, a)

	assert.Equal(t, first.String(), second.String())
}
