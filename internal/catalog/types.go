// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package catalog

// Media types as reported in media_type.
const (
	MediaMovie  = "movie"
	MediaTV     = "tv"
	MediaPerson = "person"
)

// AnimationGenreID is TMDB's Animation genre, used for anime discovery.
const AnimationGenreID = 16

// Page is one page of a TMDB list response.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Media is a movie or TV show as it appears in lists and search results.
// Movies use Title and ReleaseDate, TV shows Name and FirstAirDate.
type Media struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalName     string  `json:"original_name,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult"`
}

// DisplayTitle returns Title for movies and Name for TV shows.
func (m *Media) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Person is a search/person result.
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department,omitempty"`
	Popularity         float64 `json:"popularity"`
	KnownFor           []Media `json:"known_for,omitempty"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the genre/{movie,tv}/list response.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// CastMember is one credits.cast entry.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is one credits.crew entry.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits is the appended credits block.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a trailer or clip.
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Details is the movie/{id} or tv/{id} response with credits, videos and
// recommendations appended.
type Details struct {
	Media
	Genres           []Genre      `json:"genres"`
	Runtime          int          `json:"runtime,omitempty"`
	EpisodeRunTime   []int        `json:"episode_run_time,omitempty"`
	NumberOfSeasons  int          `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int          `json:"number_of_episodes,omitempty"`
	Tagline          string       `json:"tagline,omitempty"`
	Status           string       `json:"status,omitempty"`
	Homepage         string       `json:"homepage,omitempty"`
	IMDbID           string       `json:"imdb_id,omitempty"`
	Credits          *Credits     `json:"credits,omitempty"`
	Videos           *Page[Video] `json:"videos,omitempty"`
	Recommendations  *Page[Media] `json:"recommendations,omitempty"`
}

// GenreNames returns the names of d's genres.
func (d *Details) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// DiscoverParams are the discover/{movie,tv} filters CineScope uses.
type DiscoverParams struct {
	GenreID int
	SortBy  string
	Page    int
}
