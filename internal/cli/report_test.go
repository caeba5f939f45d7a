package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCommand(t *testing.T) {
	source := writeTestDataset(t)

	output, err := executeCommand(rootCmd, "report", source)
	require.NoError(t, err)
	assert.Contains(t, output, "COMPREHENSIVE DIET ANALYSIS REPORT")
	assert.Contains(t, output, "Total recipes: 3")
	assert.Contains(t, output, "HIGHEST PROTEIN CONTENT: vegan")
}
