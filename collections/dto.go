package collections

// AddFavoriteRequest identifies the song to favorite.
type AddFavoriteRequest struct {
	Title  string `json:"title" example:"Matushka"`
	Artist string `json:"artist" example:"Tatiana Kurtukova"`
}

// RecordHistoryRequest records one playback event.
type RecordHistoryRequest struct {
	Title  string `json:"title" example:"Matushka"`
	Artist string `json:"artist" example:"Tatiana Kurtukova"`
}

// DeleteHistoryEntryRequest identifies a single history entry to delete.
type DeleteHistoryEntryRequest struct {
	Title    string `json:"title" example:"Matushka"`
	PlayedAt string `json:"playedAt" example:"2025-05-01T12:30:00Z"`
}

// CreatePlaylistRequest creates a named playlist, optionally pre-populated.
type CreatePlaylistRequest struct {
	Name  string   `json:"name" example:"Road trip"`
	Songs []string `json:"songs"`
}

// UpdatePlaylistRequest replaces a playlist's song list.
type UpdatePlaylistRequest struct {
	Songs []string `json:"songs"`
}
