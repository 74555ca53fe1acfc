package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/singparty/server/internal/repository/room"
)

func (r repo) getPlaylistKey(playlistId string) string {
	return "playlist:" + playlistId
}

func (r repo) getPlaylistSongsKey(playlistId string) string {
	return "playlist:" + playlistId + ":songs"
}

func (r repo) getPlaylistSongKey(songId string) string {
	return "playlist-song:" + songId
}

func (r repo) getOwnerPlaylistsKey(ownerId string) string {
	return "user:" + ownerId + ":playlists"
}

func (r repo) SetPlaylist(ctx context.Context, params *room.SetPlaylistParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	model := room.Playlist{
		OwnerId:     params.OwnerId,
		Name:        params.Name,
		Description: params.Description,
		IsPublic:    params.IsPublic,
		CreatedAt:   params.CreatedAt,
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getPlaylistKey(params.PlaylistId), model)
	pipe.ZAdd(ctx, r.getOwnerPlaylistsKey(params.OwnerId), redis.Z{
		Score:  float64(params.CreatedAt),
		Member: params.PlaylistId,
	})

	return r.executePipe(ctx, pipe)
}

func (r repo) GetPlaylist(ctx context.Context, playlistId string) (room.Playlist, error) {
	var model room.Playlist
	if err := r.rc.HGetAll(ctx, r.getPlaylistKey(playlistId)).Scan(&model); err != nil {
		return room.Playlist{}, err
	}

	if model.OwnerId == "" {
		return room.Playlist{}, room.ErrPlaylistNotFound
	}

	return model, nil
}

// GetPlaylistIdsByOwner returns the owner's playlists newest first.
func (r repo) GetPlaylistIdsByOwner(ctx context.Context, ownerId string) ([]string, error) {
	return r.rc.ZRevRange(ctx, r.getOwnerPlaylistsKey(ownerId), 0, -1).Result()
}

func (r repo) RemovePlaylist(ctx context.Context, playlistId string) error {
	r.logger.DebugContext(ctx, "called", "playlist_id", playlistId)

	model, err := r.GetPlaylist(ctx, playlistId)
	if err != nil {
		return err
	}

	songIds, err := r.GetPlaylistSongIds(ctx, playlistId)
	if err != nil {
		return err
	}

	pipe := r.rc.TxPipeline()
	for _, songId := range songIds {
		pipe.Del(ctx, r.getPlaylistSongKey(songId))
	}
	pipe.Del(ctx, r.getPlaylistSongsKey(playlistId))
	pipe.Del(ctx, r.getPlaylistKey(playlistId))
	pipe.ZRem(ctx, r.getOwnerPlaylistsKey(model.OwnerId), playlistId)

	return r.executePipe(ctx, pipe)
}

// SetPlaylistSong appends the song at the playlist's next free position,
// using the same assignment script as the room queue (playlists have no
// history set, so that key is a dead slot here).
func (r repo) SetPlaylistSong(ctx context.Context, params *room.SetPlaylistSongParams) (int, error) {
	r.logger.DebugContext(ctx, "called", "params", params)

	position, err := r.addWithNextPosition(ctx,
		r.getPlaylistSongsKey(params.PlaylistId),
		r.getPlaylistSongsKey(params.PlaylistId)+":history",
		params.SongId,
	)
	if err != nil {
		return 0, err
	}

	song := room.PlaylistSong{
		PlaylistId:     params.PlaylistId,
		VideoId:        params.VideoId,
		VideoTitle:     params.VideoTitle,
		VideoThumbnail: params.VideoThumbnail,
		Position:       position,
		CreatedAt:      params.CreatedAt,
	}

	if err := r.rc.HSet(ctx, r.getPlaylistSongKey(params.SongId), song).Err(); err != nil {
		r.rc.ZRem(ctx, r.getPlaylistSongsKey(params.PlaylistId), params.SongId)
		return 0, err
	}

	return position, nil
}

func (r repo) GetPlaylistSong(ctx context.Context, songId string) (room.PlaylistSong, error) {
	var song room.PlaylistSong
	if err := r.rc.HGetAll(ctx, r.getPlaylistSongKey(songId)).Scan(&song); err != nil {
		return room.PlaylistSong{}, err
	}

	if song.PlaylistId == "" {
		return room.PlaylistSong{}, room.ErrPlaylistSongNotFound
	}

	return song, nil
}

func (r repo) GetPlaylistSongIds(ctx context.Context, playlistId string) ([]string, error) {
	return r.rc.ZRange(ctx, r.getPlaylistSongsKey(playlistId), 0, -1).Result()
}

func (r repo) RemovePlaylistSong(ctx context.Context, params *room.RemovePlaylistSongParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	removed, err := r.rc.ZRem(ctx, r.getPlaylistSongsKey(params.PlaylistId), params.SongId).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return room.ErrPlaylistSongNotFound
	}

	return r.rc.Del(ctx, r.getPlaylistSongKey(params.SongId)).Err()
}
