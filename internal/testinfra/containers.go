// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// mongoReadyTimeout bounds the ping loop after the container reports
	// it is listening.
	mongoReadyTimeout = 30 * time.Second

	// maxDatabaseName stays under MongoDB's 64 byte database name limit.
	maxDatabaseName = 60
)

var nonDatabaseChars = regexp.MustCompile(`[^a-z0-9_]+`)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// ContainerLogger adapts testcontainers logging to testing.T.
type ContainerLogger struct {
	t *testing.T
}

// NewContainerLogger creates a logger that outputs to testing.T.
func NewContainerLogger(t *testing.T) *ContainerLogger {
	return &ContainerLogger{t: t}
}

// Printf implements the testcontainers logger.
func (l *ContainerLogger) Printf(format string, v ...interface{}) {
	l.t.Logf("[mongo] "+format, v...)
}

// StartMongo skips without Docker, otherwise starts a MongoDB container,
// waits until it answers a ping and terminates it when the test ends.
//
//	mongo := testinfra.StartMongo(t)
//	backend, err := store.OpenMongo(ctx, store.MongoConfig{URI: mongo.URI, Database: testinfra.DatabaseName(t)})
func StartMongo(t *testing.T, opts ...MongoOption) *MongoContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := NewMongoContainer(t, ctx, opts...)
	if err != nil {
		t.Fatalf("NewMongoContainer() error = %v", err)
	}
	t.Cleanup(func() { container.Cleanup(t) })

	if err := container.WaitForPing(ctx, mongoReadyTimeout); err != nil {
		t.Fatalf("MongoDB never became ready: %v", err)
	}
	return container
}

// WaitForPing polls the server with the driver until a primary answers.
func (m *MongoContainer) WaitForPing(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		return fmt.Errorf("connect %s: %w", m.URI, err)
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck

	for {
		err := client.Ping(ctx, readpref.Primary())
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("ping %s: %w", m.URI, err)
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// Cleanup terminates the container, logging instead of failing.
func (m *MongoContainer) Cleanup(t *testing.T) {
	t.Helper()

	if m == nil || m.Container == nil {
		return
	}
	if err := m.Terminate(context.Background()); err != nil {
		t.Logf("Warning: failed to terminate mongo container: %v", err)
	}
}

// DatabaseName derives a valid, per-test MongoDB database name from t.Name()
// so tests sharing a server do not see each other's documents.
func DatabaseName(t *testing.T) string {
	name := "cinescope_" + nonDatabaseChars.ReplaceAllString(strings.ToLower(t.Name()), "_")
	name = strings.TrimRight(name, "_")
	if len(name) > maxDatabaseName {
		name = name[:maxDatabaseName]
	}
	return name
}
