// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// FakeTMDBKey is the only API key FakeTMDB accepts.
const FakeTMDBKey = "fake-tmdb-key"

// FakeTitle is a movie or TV show served by FakeTMDB.
type FakeTitle struct {
	ID       int
	Title    string
	Overview string
	Poster   string
	Backdrop string
	Date     string
	Vote     float64
	GenreIDs []int
	TV       bool
}

var fakeGenres = map[int]string{
	16: "Animation", 18: "Drama", 35: "Comedy", 80: "Crime", 10749: "Romance",
	28: "Action", 878: "Science Fiction", 10765: "Sci-Fi & Fantasy",
}

// DefaultFakeTitles is the fixture catalog.
var DefaultFakeTitles = []FakeTitle{
	{ID: 550, Title: "Fight Club", Overview: "An insomniac office worker...", Poster: "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg", Backdrop: "/hZkgoQYus5vegHoetLkCJzb17zJ.jpg", Date: "1999-10-15", Vote: 8.4, GenreIDs: []int{18}},
	{ID: 13, Title: "Forrest Gump", Overview: "A man with a low IQ...", Poster: "/arw2vcBveWOVZr6pxd9XTd1TdQa.jpg", Backdrop: "/qdIMHd4sEfJSckfVJfKQvisL02a.jpg", Date: "1994-06-23", Vote: 8.5, GenreIDs: []int{35, 18, 10749}},
	{ID: 238, Title: "The Godfather", Overview: "Spanning the years 1945 to 1955...", Poster: "/3bhkrj58Vtu7enYsRolD1fZdja1.jpg", Backdrop: "/tmU7GeKVybMWFButWEGl2M4GeiP.jpg", Date: "1972-03-14", Vote: 8.7, GenreIDs: []int{18, 80}},
	{ID: 680, Title: "Pulp Fiction", Overview: "A burger-loving hit man...", Poster: "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg", Backdrop: "/suaEOtk1N1sgg2MTM7oZd2cfVp3.jpg", Date: "1994-09-10", Vote: 8.5, GenreIDs: []int{80}},
	{ID: 129, Title: "Spirited Away", Overview: "A young girl wanders into a world...", Poster: "/39wmItIWsg5sZMyRUHLkWBcuVCM.jpg", Date: "2001-07-20", Vote: 8.5, GenreIDs: []int{16}},
	{ID: 1396, Title: "Breaking Bad", Overview: "A chemistry instructor turns to crime.", Poster: "/ztkUQFLlC19CCMYHW9o1zWhJRNq.jpg", Date: "2008-01-20", Vote: 8.9, GenreIDs: []int{18, 80}, TV: true},
	{ID: 37854, Title: "One Piece", Overview: "Monkey D. Luffy sets off...", Poster: "/cMD9Ygz11zjJzAovURpO75Qg7rT.jpg", Date: "1999-10-20", Vote: 8.7, GenreIDs: []int{16, 10765}, TV: true},
}

// FakeTMDB is an httptest server answering the TMDB v3 endpoints CineScope
// calls. Requests are recorded for assertions.
type FakeTMDB struct {
	server *httptest.Server
	titles []FakeTitle

	mu       sync.Mutex
	requests []url.URL
	failures map[string]int
}

// NewFakeTMDB starts a FakeTMDB serving DefaultFakeTitles. It is closed when
// the test ends.
func NewFakeTMDB(t *testing.T) *FakeTMDB {
	t.Helper()

	f := &FakeTMDB{titles: DefaultFakeTitles, failures: make(map[string]int)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL to configure as the catalog base URL.
func (f *FakeTMDB) URL() string {
	return f.server.URL
}

// FailWith makes every request to path answer with status.
func (f *FakeTMDB) FailWith(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// Requests returns the recorded request URLs.
func (f *FakeTMDB) Requests() []url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]url.URL, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestCount returns how many requests hit path.
func (f *FakeTMDB) RequestCount(path string) int {
	n := 0
	for _, u := range f.Requests() {
		if u.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, *r.URL)
	status, failing := f.failures[r.URL.Path]
	f.mu.Unlock()

	if r.URL.Query().Get("api_key") != FakeTMDBKey {
		writeFake(w, http.StatusUnauthorized, map[string]interface{}{
			"status_code": 7, "status_message": "Invalid API key: You must be granted a valid key.", "success": false,
		})
		return
	}
	if failing {
		writeFake(w, status, map[string]interface{}{"status_message": "forced failure", "success": false})
		return
	}

	q := r.URL.Query()
	path := r.URL.Path
	switch {
	case path == "/movie/popular" || path == "/movie/top_rated" || path == "/movie/upcoming":
		f.writeList(w, f.filter(false, 0, ""))
	case path == "/tv/popular":
		f.writeList(w, f.filter(true, 0, ""))
	case path == "/discover/movie" || path == "/discover/tv":
		genre, _ := strconv.Atoi(q.Get("with_genres"))
		f.writeList(w, f.filter(path == "/discover/tv", genre, ""))
	case path == "/search/movie" || path == "/search/tv":
		f.writeList(w, f.filter(path == "/search/tv", 0, q.Get("query")))
	case path == "/search/person":
		f.writePeople(w, q.Get("query"))
	case path == "/genre/movie/list" || path == "/genre/tv/list":
		genres := make([]map[string]interface{}, 0, len(fakeGenres))
		for id, name := range fakeGenres {
			genres = append(genres, map[string]interface{}{"id": id, "name": name})
		}
		writeFake(w, http.StatusOK, map[string]interface{}{"genres": genres})
	case strings.HasPrefix(path, "/movie/") || strings.HasPrefix(path, "/tv/"):
		f.writeDetails(w, path)
	default:
		writeFake(w, http.StatusNotFound, map[string]interface{}{"status_code": 34, "status_message": "The resource you requested could not be found."})
	}
}

func (f *FakeTMDB) filter(tv bool, genre int, query string) []FakeTitle {
	var out []FakeTitle
	for _, t := range f.titles {
		if t.TV != tv {
			continue
		}
		if genre != 0 && !containsInt(t.GenreIDs, genre) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(query)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (f *FakeTMDB) writeList(w http.ResponseWriter, titles []FakeTitle) {
	results := make([]map[string]interface{}, 0, len(titles))
	for _, t := range titles {
		results = append(results, t.summary())
	}
	writeFake(w, http.StatusOK, map[string]interface{}{
		"page": 1, "results": results, "total_pages": 1, "total_results": len(results),
	})
}

func (f *FakeTMDB) writePeople(w http.ResponseWriter, query string) {
	results := []map[string]interface{}{}
	if strings.Contains("brad pitt", strings.ToLower(query)) {
		results = append(results, map[string]interface{}{
			"id": 287, "name": "Brad Pitt", "known_for_department": "Acting", "popularity": 20.1,
		})
	}
	writeFake(w, http.StatusOK, map[string]interface{}{
		"page": 1, "results": results, "total_pages": 1, "total_results": len(results),
	})
}

func (f *FakeTMDB) writeDetails(w http.ResponseWriter, path string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	id, err := strconv.Atoi(parts[len(parts)-1])
	tv := parts[0] == "tv"
	if err == nil && len(parts) == 2 {
		for _, t := range f.titles {
			if t.ID != id || t.TV != tv {
				continue
			}
			body := t.summary()
			genres := make([]map[string]interface{}, 0, len(t.GenreIDs))
			for _, g := range t.GenreIDs {
				genres = append(genres, map[string]interface{}{"id": g, "name": fakeGenres[g]})
			}
			body["genres"] = genres
			body["runtime"] = 120
			body["credits"] = map[string]interface{}{"cast": []interface{}{}, "crew": []interface{}{}}
			body["videos"] = map[string]interface{}{"results": []interface{}{}}
			body["recommendations"] = map[string]interface{}{"page": 1, "results": []interface{}{}}
			writeFake(w, http.StatusOK, body)
			return
		}
	}
	writeFake(w, http.StatusNotFound, map[string]interface{}{"status_code": 34, "status_message": "The resource you requested could not be found."})
}

func (t FakeTitle) summary() map[string]interface{} {
	m := map[string]interface{}{
		"id":            t.ID,
		"overview":      t.Overview,
		"poster_path":   t.Poster,
		"backdrop_path": t.Backdrop,
		"vote_average":  t.Vote,
		"genre_ids":     t.GenreIDs,
	}
	if t.TV {
		m["name"] = t.Title
		m["first_air_date"] = t.Date
	} else {
		m["title"] = t.Title
		m["release_date"] = t.Date
	}
	return m
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func writeFake(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
