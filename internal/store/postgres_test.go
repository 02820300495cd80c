// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetVida Contributors

package store

import (
	"context"
	"testing"
	"time"

	"github.com/petvida/petvida/pkg/errutil"
)

func TestConnect_MalformedURLFailsWithoutRetry(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://u:p@localhost:notaport/db", ConnectOptions{
		Retries: 5,
		Backoff: time.Hour,
	})
	errutil.AssertKind(t, err, errutil.KindPersistence)
	errutil.AssertErrorContext(t, err, "operation", "parse database url")
}

func TestConnect_GivesUpAfterRetries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := Connect(ctx, "postgres://u:p@127.0.0.1:1/db?connect_timeout=1", ConnectOptions{
		Retries: 2,
		Backoff: time.Millisecond,
	})
	errutil.AssertKind(t, err, errutil.KindPersistence)
	errutil.AssertErrorContext(t, err, "operation", "connect")
	errutil.AssertErrorContext(t, err, "attempts", 3)
}
