// Package catalog owns the song metadata records and the media files behind
// them. Reads are public; mutation is admin-only.
package catalog

import "time"

// Song is one catalog entry. The file/art/artistArt references are paths
// relative to the media root, resolved by the static file server.
type Song struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Genre      string    `json:"genre"`
	Emotion    string    `json:"emotion"`
	File       string    `json:"file"`
	Art        string    `json:"art"`
	ArtistArt  string    `json:"artistArt"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// NewSong carries the fields of a song about to be inserted.
type NewSong struct {
	Title     string
	Artist    string
	Genre     string
	Emotion   string
	File      string
	Art       string
	ArtistArt string
}
