package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-historic/internal/config"
)

func TestSyncConfig_Modes(t *testing.T) {
	local := syncConfig(options{source: "/tmp/contacts.vcf", user: "ignored"}, "-P1D")
	assert.Equal(t, config.SourceModeLocal, local.Mode)
	assert.Equal(t, "/tmp/contacts.vcf", local.LocalPath)
	assert.Equal(t, "-P1D", local.ReminderTrigger)
	assert.Empty(t, local.WebUser)

	web := syncConfig(options{source: "/tmp/contacts.vcf", url: "https://dav.example.com", user: "ada", password: "secret"}, "")
	assert.Equal(t, config.SourceModeWeb, web.Mode)
	assert.Equal(t, "https://dav.example.com", web.WebURL)
	assert.Equal(t, "ada", web.WebUser)
	assert.Equal(t, "secret", web.WebPass)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("GO_HISTORIC_TEST_STR", "value")
	t.Setenv("GO_HISTORIC_TEST_EMPTY", "")
	t.Setenv("GO_HISTORIC_TEST_INT", "15")
	t.Setenv("GO_HISTORIC_TEST_BAD", "soon")

	assert.Equal(t, "value", getEnv("GO_HISTORIC_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("GO_HISTORIC_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", getEnv("GO_HISTORIC_TEST_UNSET", "fallback"))

	assert.Equal(t, 15, getEnvInt("GO_HISTORIC_TEST_INT", 60))
	assert.Equal(t, 60, getEnvInt("GO_HISTORIC_TEST_BAD", 60))
	assert.Equal(t, 60, getEnvInt("GO_HISTORIC_TEST_UNSET", 60))
}

func TestNewRouter(t *testing.T) {
	router, err := newRouter("")
	require.NoError(t, err)
	_, err = router.Lookup("islamic-umalqura")
	assert.NoError(t, err)

	_, err = newRouter(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrHijriDataDir)

	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "README.txt"), []byte("no tables"), config.FilePermUserRW))
	router, err = newRouter(empty)
	require.NoError(t, err)
	_, err = router.Lookup("islamic-civil")
	assert.NoError(t, err)
}
