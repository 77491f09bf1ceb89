// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package testinfra provides shared test infrastructure.
//
// # TMDB Fake
//
// FakeTMDB is an httptest server that answers the catalog endpoints CineScope
// calls, records every request and can be switched into failure modes:
//
//	tmdb := testinfra.NewFakeTMDB(t)
//	tmdb.FailWith("/movie/popular", http.StatusServiceUnavailable)
//	client := catalog.NewClient(&config.CatalogConfig{BaseURL: tmdb.URL(), APIKey: testinfra.FakeTMDBKey})
//
// # MongoDB Container
//
// Behind the integration build tag, StartMongo uses testcontainers-go to
// start a real MongoDB server for the document store backend. It returns
// once the driver can ping a primary and terminates the container on
// cleanup. DatabaseName gives each test its own database:
//
//	func TestMongoBackend(t *testing.T) {
//	    mongo := testinfra.StartMongo(t)
//	    backend, err := store.OpenMongo(ctx, store.MongoConfig{
//	        URI:      mongo.URI,
//	        Database: testinfra.DatabaseName(t),
//	    })
//	    ...
//	}
//
// These tests require Docker and are skipped gracefully when it is not
// available. First runs download the image.
package testinfra
