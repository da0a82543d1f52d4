package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorganca/ollama/api"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeServer answers /api/pull and /api/generate and records the
// generate requests it receives.
type fakeServer struct {
	pull     []api.PullProgress
	chunks   []api.TokenResponse
	requests []api.GenerateRequest
}

func (s *fakeServer) router(t *testing.T) *gin.Engine {
	r := gin.New()
	r.POST("/api/pull", func(c *gin.Context) {
		var req api.PullRequest
		assert.NoError(t, c.ShouldBindJSON(&req))
		for _, p := range s.pull {
			assert.NoError(t, json.NewEncoder(c.Writer).Encode(p))
		}
	})
	r.POST("/api/generate", func(c *gin.Context) {
		var req api.GenerateRequest
		assert.NoError(t, c.ShouldBindJSON(&req))
		s.requests = append(s.requests, req)
		for _, chunk := range s.chunks {
			assert.NoError(t, json.NewEncoder(c.Writer).Encode(chunk))
		}
	})
	return r
}

func setup(t *testing.T, s *fakeServer) string {
	ts := httptest.NewServer(s.router(t))
	t.Cleanup(ts.Close)

	modelsDir := filepath.Join(t.TempDir(), "models")
	t.Setenv("OLLAMA_HOST", ts.URL)
	t.Setenv("OLLAMA_MODELS", modelsDir)
	t.Setenv("OLLAMA_DEBUG", "")
	return modelsDir
}

func execute(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cli := NewCLI()
	cli.SetArgs(args)
	cli.SetIn(in)
	cli.SetOut(&out)
	cli.SetErr(io.Discard)

	err := cli.Execute()
	return out.String(), err
}

func TestRunPrompt(t *testing.T) {
	s := &fakeServer{
		pull: []api.PullProgress{{Status: "success"}},
		chunks: []api.TokenResponse{
			{},
			{Choices: []api.TokenResponseChoice{{Text: "Rayleigh"}}},
			{Choices: []api.TokenResponseChoice{{Text: " scattering."}}},
		},
	}
	setup(t, s)

	out, err := execute(t, strings.NewReader(""), "run", "llama", "why is the sky blue?", "-o", "temperature=0.5")
	require.NoError(t, err)

	expect := "Running llama...\n" +
		">>> why is the sky blue?\n" +
		"\n\rRayleigh scattering.\n\n"
	if diff := cmp.Diff(expect, out); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}

	require.Len(t, s.requests, 1)
	assert.Equal(t, "llama", s.requests[0].Model)
	assert.Equal(t, "why is the sky blue?", s.requests[0].Prompt)
	require.NotNil(t, s.requests[0].Options)
	assert.InDelta(t, 0.5, s.requests[0].Options.Temperature, 1e-6)
}

func TestRunBatch(t *testing.T) {
	s := &fakeServer{
		chunks: []api.TokenResponse{{Choices: []api.TokenResponseChoice{{Text: "ok"}}}},
	}
	setup(t, s)

	out, err := execute(t, strings.NewReader("a\nb\n"), "run", "llama")
	require.NoError(t, err)

	expect := "Running llama...\n" +
		">>> a\n\n\rok\n\n" +
		">>> b\n\n\rok\n\n"
	if diff := cmp.Diff(expect, out); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}

	require.Len(t, s.requests, 2)
	assert.Equal(t, "a", s.requests[0].Prompt)
	assert.Equal(t, "b", s.requests[1].Prompt)
	assert.Nil(t, s.requests[0].Options)
}

func TestRunGenerateError(t *testing.T) {
	r := gin.New()
	r.POST("/api/pull", func(c *gin.Context) {})
	r.POST("/api/generate", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "model 'llama' not found"})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	t.Setenv("OLLAMA_HOST", ts.URL)
	t.Setenv("OLLAMA_MODELS", t.TempDir())

	_, err := execute(t, strings.NewReader(""), "run", "llama", "hi")
	require.ErrorContains(t, err, "model 'llama' not found")
}

func TestRunBadOption(t *testing.T) {
	setup(t, &fakeServer{})

	_, err := execute(t, strings.NewReader(""), "run", "llama", "hi", "-o", "flavor=vanilla")
	require.ErrorContains(t, err, "flavor")
}

func TestPull(t *testing.T) {
	s := &fakeServer{
		pull: []api.PullProgress{
			{Status: "pulling manifest"},
			{Status: "downloading", Digest: "sha256:0123456789abcdef", Total: 100, Completed: 40},
			{Status: "downloading", Digest: "sha256:0123456789abcdef", Total: 100, Completed: 100},
			{Status: "success"},
		},
	}
	setup(t, s)

	out, err := execute(t, strings.NewReader(""), "pull", "llama")
	require.NoError(t, err)
	assert.Equal(t, "Up to date.\n", out)
	assert.Empty(t, s.requests)
}

func TestModels(t *testing.T) {
	modelsDir := setup(t, &fakeServer{})

	out, err := execute(t, nil, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "MODIFIED")

	info, err := os.Stat(modelsDir)
	require.NoError(t, err, "models directory should be created")
	assert.True(t, info.IsDir())

	require.NoError(t, os.WriteFile(filepath.Join(modelsDir, "orca-mini-3b.bin"), make([]byte, 2000), 0o644))

	out, err = execute(t, nil, "models")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "orca-mini-3b")
	assert.Contains(t, lines[1], "2.0 KB")
	assert.Contains(t, lines[1], "ago")
}

func TestSearch(t *testing.T) {
	r := gin.New()
	r.GET("/models", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{{"name": "Orca-Mini-3B"}, {"name": "orca-mini-7b"}, {"name": "vicuna-7b"}})
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	setup(t, &fakeServer{})
	t.Setenv("OLLAMA_DIRECTORY", ts.URL+"/models")

	cases := []struct {
		args   []string
		expect string
	}{
		{[]string{"search", "vicuna"}, "Found 1 available model:\nvicuna-7b\n"},
		{[]string{"search", "orca"}, "Found 2 available models:\norca-mini-3b\norca-mini-7b\n"},
		{[]string{"search", "falcon"}, "No models found.\n"},
	}

	for _, tt := range cases {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := execute(t, nil, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, out)
		})
	}
}

func TestSearchUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)
	setup(t, &fakeServer{})
	t.Setenv("OLLAMA_DIRECTORY", ts.URL)

	out, err := execute(t, nil, "search")
	require.NoError(t, err)
	assert.Equal(t, "Failed to fetch available models, check your network connection\n", out)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("existing environment wins", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envPath, []byte("OLLAMA_TEST_A=from-file\nOLLAMA_TEST_B=from-file\n"), 0o600))

		t.Setenv("OLLAMA_TEST_A", "from-env")
		t.Setenv("OLLAMA_TEST_B", "")
		os.Unsetenv("OLLAMA_TEST_B")

		require.NoError(t, loadDotEnv(envPath))
		assert.Equal(t, "from-env", os.Getenv("OLLAMA_TEST_A"))
		assert.Equal(t, "from-file", os.Getenv("OLLAMA_TEST_B"))
	})
}

func TestHelpListsEnvironment(t *testing.T) {
	setup(t, &fakeServer{})

	for _, args := range [][]string{{"--help"}, {"run", "--help"}} {
		out, err := execute(t, nil, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "Environment Variables:")
		assert.Contains(t, out, "OLLAMA_HOST")
		assert.Contains(t, out, "OLLAMA_MODELS")
		assert.Contains(t, out, "OLLAMA_DEBUG")
	}
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortDigest("sha256:0123456789abcdef"))
	assert.Equal(t, "abc", shortDigest("sha256:abc"))
	assert.Equal(t, "abc", shortDigest("abc"))
}
