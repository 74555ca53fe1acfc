package room

type Playlist struct {
	OwnerId     string `redis:"owner_id"`
	Name        string `redis:"name"`
	Description string `redis:"description"`
	IsPublic    bool   `redis:"is_public"`
	CreatedAt   int64  `redis:"created_at"`
}

type PlaylistSong struct {
	PlaylistId     string `redis:"playlist_id"`
	VideoId        string `redis:"video_id"`
	VideoTitle     string `redis:"video_title"`
	VideoThumbnail string `redis:"video_thumbnail"`
	Position       int    `redis:"position"`
	CreatedAt      int64  `redis:"created_at"`
}

type SetPlaylistParams struct {
	PlaylistId  string
	OwnerId     string
	Name        string
	Description string
	IsPublic    bool
	CreatedAt   int64
}

type SetPlaylistSongParams struct {
	SongId         string
	PlaylistId     string
	VideoId        string
	VideoTitle     string
	VideoThumbnail string
	CreatedAt      int64
}

type RemovePlaylistSongParams struct {
	SongId     string
	PlaylistId string
}
