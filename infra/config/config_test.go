package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6080, c.Server.Port)
	assert.Equal(t, SourceFile, c.Model.Source)
	assert.Equal(t, ThemeImage, c.Dashboard.Theme)
	assert.Equal(t, UploadsMemory, c.Dataset.Uploads)
	assert.Equal(t, 5, len(c.Legend))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devcluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
dataset:
  path: data/world.csv
model:
  source: s3
  name: world
  bucket: artifacts
dashboard:
  title: Clustering App
  theme: gradient
  multi_select: true
  width: 800
  height: 600
legend:
  - index: 0
    color: blue
    hex: "#0000ff"
    description: Strong economic development
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "data/world.csv", c.Dataset.Path)
	assert.Equal(t, SourceBucket, c.Model.Source)
	assert.Equal(t, "artifacts", c.Model.Bucket)
	assert.True(t, c.Dashboard.MultiSelect)
	assert.Equal(t, ThemeGradient, c.Dashboard.Theme)
	require.Equal(t, 1, len(c.Legend))
	assert.Equal(t, "Strong economic development", c.Legend[0].Description)
	// untouched values keep their default
	assert.Equal(t, 50, c.Dashboard.RawRows)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DEVCLUSTER_SERVER_PORT", "7070")
	t.Setenv("DEVCLUSTER_DASHBOARD_THEME", "plain")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, ThemePlain, c.Dashboard.Theme)
}

func TestLoad_Invalid(t *testing.T) {

	type test struct {
		yaml string
	}

	tests := map[string]test{
		"unknown-theme":  {yaml: "dashboard:\n  theme: neon\n"},
		"unknown-source": {yaml: "model:\n  source: ftp\n"},
		"unknown-upload": {yaml: "dataset:\n  uploads: cloud\n"},
		"missing-bucket": {yaml: "model:\n  source: s3\n"},
		"bad-port":       {yaml: "server:\n  port: 70000\n"},
		"bad-colour":     {yaml: "legend:\n  - index: 0\n    color: blue\n    hex: navy\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "devcluster.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
			assert.Panics(t, func() {
				MustLoad(path)
			})
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "devcluster.yaml")
	c := Default()
	c.Server.Port = 8081
	require.NoError(t, Save(c, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, loaded.Server.Port)
	assert.Equal(t, c.Legend, loaded.Legend)
	assert.Equal(t, c.Dashboard, loaded.Dashboard)
}
