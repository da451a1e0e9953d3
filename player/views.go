package player

import (
	"strings"

	"github.com/santhiya1818/vibescape/catalog"
)

// recentlyPlayedLimit caps the recently-played strip in the UI.
const recentlyPlayedLimit = 6

// RecentlyPlayed returns the most recent distinct track titles from the
// local play history, newest first, capped at six.
func (p *Player) RecentlyPlayed() []string {
	seen := map[string]bool{}
	recent := []string{}
	for _, title := range p.localHistory {
		if seen[title] {
			continue
		}
		seen[title] = true
		recent = append(recent, title)
		if len(recent) == recentlyPlayedLimit {
			break
		}
	}
	return recent
}

// Artist is one entry in the artist browse view.
type Artist struct {
	Name string
	Art  string
}

// Artists returns the distinct artists in catalog order, each with the
// artwork of their first catalog entry.
func (p *Player) Artists() []Artist {
	seen := map[string]bool{}
	artists := []Artist{}
	for _, song := range p.catalog {
		if seen[song.Artist] {
			continue
		}
		seen[song.Artist] = true
		artists = append(artists, Artist{Name: song.Artist, Art: song.ArtistArt})
	}
	return artists
}

// ByArtist returns the catalog entries for one artist.
func (p *Player) ByArtist(artist string) []catalog.Song {
	songs := []catalog.Song{}
	for _, song := range p.catalog {
		if strings.EqualFold(song.Artist, artist) {
			songs = append(songs, song)
		}
	}
	return songs
}

// ByGenre returns the catalog entries for one genre.
func (p *Player) ByGenre(genre string) []catalog.Song {
	songs := []catalog.Song{}
	for _, song := range p.catalog {
		if strings.EqualFold(song.Genre, genre) {
			songs = append(songs, song)
		}
	}
	return songs
}

// Search matches the query against titles and artists, case-insensitively.
func (p *Player) Search(query string) []catalog.Song {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []catalog.Song{}
	}
	songs := []catalog.Song{}
	for _, song := range p.catalog {
		if strings.Contains(strings.ToLower(song.Title), query) ||
			strings.Contains(strings.ToLower(song.Artist), query) {
			songs = append(songs, song)
		}
	}
	return songs
}
