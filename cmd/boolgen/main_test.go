package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	sourcer "github.com/kailas-cloud/sourcer/pkg/sdk"
)

const defaultNots = "NOT intern NOT junior NOT bootcamp NOT entry NOT trainee"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp(&buf)
	err := app.Run(append([]string{"boolgen"}, args...))
	return buf.String(), err
}

func TestGenerate_Plain(t *testing.T) {
	out, err := run(t, "--role", "Sommelier", "--platform", "Generic")
	require.NoError(t, err)
	assert.Contains(t, out, "Sommelier AND "+defaultNots)
	assert.NotContains(t, out, "Explanation")
}

func TestGenerate_DefaultPlatformIsLinkedIn(t *testing.T) {
	out, err := run(t, "--role", "Sommelier")
	require.NoError(t, err)
	assert.Contains(t, out, "(site:linkedin.com/in OR site:linkedin.com/pub) AND Sommelier")
}

func TestGenerate_JSON(t *testing.T) {
	out, err := run(t, "-r", "Engineer", "-p", "GitHub", "-s", "Go", "--json")
	require.NoError(t, err)

	var res sourcer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "local-v1", res.PromptVersion)
	assert.Contains(t, res.Boolean, "site:github.com (in:readme OR in:bio) AND")
	assert.Contains(t, res.Explanation, "• Platform mode: GitHub")
}

func TestGenerate_Explain(t *testing.T) {
	out, err := run(t, "--role", "Designer", "--platform", "Generic", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "Explanation")
	assert.Contains(t, out, "• Platform mode: Generic")
	assert.Contains(t, out, "prompt version: local-v1")
}

func TestGenerate_MissingRole(t *testing.T) {
	_, err := run(t, "--skills", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--role")
}

func TestGenerate_UnknownPlatform(t *testing.T) {
	_, err := run(t, "--role", "Engineer", "--platform", "MySpace")
	require.Error(t, err)
	assert.ErrorIs(t, err, sourcer.ErrInvalidInput)
}

func TestGenerate_AssistUnknownProvider(t *testing.T) {
	_, err := run(t, "--role", "Engineer", "--assist", "--provider", "cohere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assist provider")
}

func TestGenerate_AssistAnthropic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"` +
			`{\"boolean\":\"(engineer OR developer) AND NOT intern\",\"explanation\":\"• Role\"}"}],` +
			`"usage":{"input_tokens":30,"output_tokens":12}}`))
	}))
	defer server.Close()

	out, err := run(t,
		"--role", "Engineer", "--assist", "--json",
		"--provider", "anthropic", "--api-key", "test-key", "--base-url", server.URL,
	)
	require.NoError(t, err)

	var res sourcer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "(engineer OR developer) AND NOT intern", res.Boolean)
	assert.Equal(t, "peoplegpt-v1", res.PromptVersion)
}

func TestGenerate_AssistProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := run(t,
		"--role", "Engineer", "--assist",
		"--provider", "anthropic", "--api-key", "k", "--base-url", server.URL,
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, sourcer.ErrAssistProviderError)

	var pe *sourcer.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
}

func TestHandoffCommand(t *testing.T) {
	out, err := run(t, "handoff", "--role", "Engineer", "--location", "Berlin")
	require.NoError(t, err)
	assert.Contains(t, out, "Source top Engineer candidates. Location: Berlin.")
	assert.Contains(t, out, "https://app.juicebox.ai/peoplegpt?prompt=")
}

func TestHandoffCommand_MissingRole(t *testing.T) {
	_, err := run(t, "handoff")
	require.Error(t, err)
	assert.ErrorIs(t, err, sourcer.ErrInvalidInput)
}

func TestPlatformsCommand(t *testing.T) {
	out, err := run(t, "platforms")
	require.NoError(t, err)
	for _, name := range []string{"LinkedIn", "GitHub", "Google X-Ray", "Generic"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "site:github.com (in:readme OR in:bio)")
	assert.Contains(t, out, "(no prefix)")
}

func TestFlagDefaults(t *testing.T) {
	app := newApp(&bytes.Buffer{})

	find := func(name string) cli.Flag {
		for _, f := range app.Flags {
			for _, n := range f.Names() {
				if n == name {
					return f
				}
			}
		}
		return nil
	}

	t.Run("platform defaults to LinkedIn", func(t *testing.T) {
		f, ok := find("platform").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "LinkedIn", f.Value)
	})

	t.Run("provider defaults to anthropic", func(t *testing.T) {
		f, ok := find("provider").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "anthropic", f.Value)
	})

	t.Run("api key reads the environment", func(t *testing.T) {
		f, ok := find("api-key").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, []string{"SOURCER_ASSIST_API_KEY"}, f.EnvVars)
	})
}
