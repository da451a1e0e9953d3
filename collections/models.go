package collections

import "time"

// Favorite is a song a user marked as favorite. Songs are identified by
// (title, artist) so a favorite survives re-uploads of the same track.
type Favorite struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Artist  string    `json:"artist"`
	AddedAt time.Time `json:"addedAt"`
}

// HistoryEntry is one playback event in a user's listening history.
type HistoryEntry struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	PlayedAt time.Time `json:"playedAt"`
}

// Playlist is a named, ordered list of song titles owned by one user.
// Titles may repeat; order is whatever the client last submitted.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Songs     []string  `json:"songs"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
