package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flowtype/internal/config"
	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/store"
)

func isolateXDG(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--words", "40"}))

	fromFile := 10
	applyConfig(cmd, "words", &practiceWords, &fromFile)
	assert.Equal(t, 40, practiceWords)

	mode := "zen"
	applyConfig(cmd, "mode", &practiceMode, &mode)
	assert.Equal(t, "zen", practiceMode)

	applyConfig(cmd, "time", &practiceTime, nil)
	assert.Equal(t, 30, practiceTime)
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	isolateXDG(t)
	commented := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`)
	uncommented := commented.ReplaceAllString(defaultConfigTemplate(), "$1")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(uncommented), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Mode)
	assert.Equal(t, defaultMode, *cfg.Practice.Mode)
	require.NotNil(t, cfg.Practice.Time)
	assert.Equal(t, 30, *cfg.Practice.Time)
	require.NotNil(t, cfg.Server.Addr)
	assert.Equal(t, defaultServeAddr, *cfg.Server.Addr)
	require.NotNil(t, cfg.Log.Level)
	assert.Equal(t, "info", *cfg.Log.Level)
}

func TestStatsConfig(t *testing.T) {
	cfg, err := statsConfig("ana", "Words", "2024-05-01", 3)
	require.NoError(t, err)
	assert.Equal(t, "words", cfg.Mode)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, "2024-05-01", cfg.Since.Format("2006-01-02"))
	assert.Equal(t, 3, cfg.Last)

	_, err = statsConfig("", "marathon", "", 0)
	assert.Error(t, err)
	_, err = statsConfig("", "", "May 1", 0)
	assert.Error(t, err)
	_, err = statsConfig("", "", "", -1)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, validateConfig(model.Config{Mode: "quote", TimeSeconds: 30, Words: 25}))
	assert.Error(t, validateConfig(model.Config{Mode: "marathon", TimeSeconds: 30, Words: 25}))
	assert.Error(t, validateConfig(model.Config{Mode: "time", TimeSeconds: 0, Words: 25}))
	assert.Error(t, validateConfig(model.Config{Mode: "time", TimeSeconds: 30, Words: -1}))
	assert.Error(t, validateConfig(model.Config{Mode: "words", TimeSeconds: 30, Words: generator.MaxTargetCount + 1}))
}

func TestGenerateCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "generate", "--mode", "custom", "--custom-text", "a  b\nc", "--limit", "4")
	require.NoError(t, err)
	assert.Equal(t, "a b c a\n", out)

	out, err = execute(t, "generate", "--mode", "words", "--limit", "7")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 7)

	_, err = execute(t, "generate", "--mode", "marathon")
	assert.Error(t, err)

	_, err = execute(t, "generate", "--mode", "words", "--count", strconv.Itoa(generator.MaxTargetCount+1))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	isolateXDG(t)
	st, err := store.Open(config.DefaultDBPath())
	require.NoError(t, err)
	_, err = st.InsertResult(context.Background(), model.ResultRecord{
		User:       "ana",
		Mode:       model.ModeTime,
		TimeBudget: 30,
		StartedAt:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		EndedAt:    time.Date(2024, 5, 1, 9, 0, 30, 0, time.UTC),
		Result:     model.TestResult{WPM: 64, Accuracy: 95},
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "export", "--format", "yaml", "--user", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "user: ana")
	assert.Contains(t, out, "mode: time")
	assert.Contains(t, out, "wpm: 64")

	outPath := filepath.Join(t.TempDir(), "results.json")
	_, err = execute(t, "export", "--out", outPath)
	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var records []model.ResultRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, 64, records[0].Result.WPM)

	out, err = execute(t, "export", "--user", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = execute(t, "export", "--format", "csv")
	assert.Error(t, err)
}

func TestStatsPlainCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "stats", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestWordBankImportCommand(t *testing.T) {
	isolateXDG(t)
	src := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(src, []byte("river\nstone\nx-y\nlantern\n"), 0o644))

	out, err := execute(t, "wordbank", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 words into "+config.DefaultWordBankPath())

	out, err = execute(t, "generate", "--mode", "words", "--limit", "5")
	require.NoError(t, err)
	for _, w := range strings.Fields(out) {
		assert.Contains(t, []string{"river", "stone", "lantern"}, w)
	}
}
