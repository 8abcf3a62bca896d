package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_ConfigErrorIsFatal(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	t.Setenv("POLYGONSCAN_API_KEY", "explorer-key")
	t.Setenv("DEEPSEEK_API_KEY", "llm-key")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_TIMEOUT")
}

func TestRootCommand_RejectsInvalidAddress(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"not-an-address"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Ethereum address format")
}
