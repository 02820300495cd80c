// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petvida/petvida/internal/config"
)

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schemas", "config.schema.json")

	require.NoError(t, generate(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), config.SchemaID)
	assert.Contains(t, string(data), `"database"`)
}

func TestGenerate_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := generate(filepath.Join(blocker, "config.schema.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
}
