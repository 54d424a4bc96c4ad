package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csconfs/internal/config"
)

const (
	cliConferences = `
- name: SOSP
  year: 2025
  deadline: "2025-04-17"
  date: "2025-10-13"
- name: CHI
  year: 2025
  deadline: "2024-09-12"
- name: ICSE
  year: 2026
  deadline: "2025-07-18"
`
	cliCSRankings = "ConferenceTitle,AreaTitle,ParentArea,Area\n" +
		"SOSP,Operating systems,Systems,ops\n" +
		"CHI,Human-computer interaction,Interdisciplinary,chi\n"
	cliCore = "ConferenceTitle,AreaTitle,ParentArea,Area\n" +
		"ICSE,Software engineering,,se\n"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	cfg := config.DefaultConfig()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.Sources = config.SourcesConfig{
		Conferences: write("conferences.yaml", cliConferences),
		CSRankings:  write("csrankings.csv", cliCSRankings),
		Core:        write("core.csv", cliCore),
	}
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "list", "--json", "--query", "csrankings=all&core=all", "--hide-past=false", "--sort", "name")
	require.NoError(t, err)

	var cards []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 3)
	assert.Equal(t, "CHI", cards[0].Name)
	assert.Equal(t, "ICSE", cards[1].Name)
	assert.Equal(t, "SOSP", cards[2].Name)
}

func TestListRejectsBadFlags(t *testing.T) {
	cfgPath := writeTestConfig(t)

	_, err := run(t, "--config", cfgPath, "list", "--sort", "popularity")
	assert.ErrorContains(t, err, "popularity")

	_, err = run(t, "--config", cfgPath, "list", "--hide-past", "maybe")
	assert.ErrorContains(t, err, "--hide-past")
}

func TestAreasText(t *testing.T) {
	color.NoColor = true
	cfgPath := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "areas", "--dataset", "core", "--query", "core=all")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] core")
	assert.Contains(t, out, "[x] Other")
	assert.Contains(t, out, "[x] ICSE")

	_, err = run(t, "--config", cfgPath, "areas", "--dataset", "dblp")
	assert.Error(t, err)
}

func TestICSStdout(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "ics", "--query", "csrankings=SOSP", "--hide-past=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "SOSP 2025 submission deadline (AoE)")
}

func TestTimelineJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := run(t, "--config", cfgPath, "timeline", "--json", "--query", "csrankings=all")
	require.NoError(t, err)

	var chart struct {
		Domain [2]int `json:"domain"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	assert.Equal(t, 0, chart.Domain[0])
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timezone: Mars/Olympus\nrefresh: \"0 * * * *\"\n"), 0o600))

	_, err := run(t, "--config", path, "list")
	assert.ErrorContains(t, err, "Mars/Olympus")
}
