package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCmd_Use(t *testing.T) {
	assert.Equal(t, "suggest [category]", suggestCmd.Use)
}

func TestSuggestCmd_Short(t *testing.T) {
	assert.Equal(t, "Show example questions", suggestCmd.Short)
}

func TestSuggestCmd_RunsWithoutServices(t *testing.T) {
	// No setupTestServices: suggest is a service-free command.
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"suggest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "What are the company policies?")
}

func TestSuggestCmd_CategoryScopesSuggestions(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"suggest", "hr"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "What is the hiring process?")
	assert.NotContains(t, output, "What are the working hours?")
}

func TestSuggestCmd_RejectsExtraArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"suggest", "hr", "extra"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}
