package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what is gradient descent?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Gradient descent minimises the loss.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "week1/intro.pdf page 3")
}

func TestAskCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--json", "what is gradient descent?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askJSON = false // Reset flag
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"answer\"")
	assert.Contains(t, buf.String(), "\"sources\"")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	oldService := chatService
	chatService = nil
	defer func() {
		chatService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}

func TestAskCmd_ServiceError(t *testing.T) {
	oldService := chatService
	chatService = &mockChatService{err: errors.New("model unavailable")}
	defer func() {
		chatService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ask failed")
}

func TestAskCmd_NoQuestionOutsideTerminal(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	// Test runs without a TTY on stdin, so interactive mode is refused.
	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a terminal")
}
