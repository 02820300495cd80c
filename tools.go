// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

//go:build tools

// Package main keeps the Ginkgo suites' and testify's packages required in
// go.mod for builds that never compile the integration tag.
package main

import (
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/mock"
	_ "github.com/stretchr/testify/require"
)
