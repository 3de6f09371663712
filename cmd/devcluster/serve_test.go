package main

import (
	"testing"

	"github.com/drakos74/devcluster/infra/config"
	"github.com/stretchr/testify/assert"
)

func TestServeHelp(t *testing.T) {
	cfg := config.Default()
	assert.Contains(t, serveCmd.Long, cfg.Dataset.Path)
	assert.Contains(t, serveCmd.Long, "devcluster train")
	assert.Contains(t, serveCmd.Long, "--dataset")
}
