package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/singparty/server/internal/repository/room"
)

type CreatePlaylistParams struct {
	OwnerId     string
	Name        string
	Description string
	IsPublic    bool
}

func (s service) CreatePlaylist(ctx context.Context, params *CreatePlaylistParams) (Playlist, error) {
	playlistId := uuid.NewString()
	createdAt := time.Now()

	if err := s.roomRepo.SetPlaylist(ctx, &room.SetPlaylistParams{
		PlaylistId:  playlistId,
		OwnerId:     params.OwnerId,
		Name:        params.Name,
		Description: params.Description,
		IsPublic:    params.IsPublic,
		CreatedAt:   createdAt.Unix(),
	}); err != nil {
		return Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}

	return Playlist{
		Id:          playlistId,
		OwnerId:     params.OwnerId,
		Name:        params.Name,
		Description: params.Description,
		IsPublic:    params.IsPublic,
		CreatedAt:   createdAt,
	}, nil
}

// GetUserPlaylists lists the owner's playlists, newest first.
func (s service) GetUserPlaylists(ctx context.Context, ownerId string) ([]Playlist, error) {
	playlistIds, err := s.roomRepo.GetPlaylistIdsByOwner(ctx, ownerId)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist ids: %w", err)
	}

	playlists := make([]Playlist, 0, len(playlistIds))
	for _, playlistId := range playlistIds {
		model, err := s.roomRepo.GetPlaylist(ctx, playlistId)
		if err != nil {
			if errors.Is(err, room.ErrPlaylistNotFound) {
				continue
			}

			return nil, fmt.Errorf("failed to get playlist: %w", err)
		}

		playlists = append(playlists, Playlist{
			Id:          playlistId,
			OwnerId:     model.OwnerId,
			Name:        model.Name,
			Description: model.Description,
			IsPublic:    model.IsPublic,
			CreatedAt:   time.Unix(model.CreatedAt, 0),
		})
	}

	return playlists, nil
}

func (s service) DeletePlaylist(ctx context.Context, playlistId string) error {
	if err := s.roomRepo.RemovePlaylist(ctx, playlistId); err != nil {
		if errors.Is(err, room.ErrPlaylistNotFound) {
			return ErrPlaylistNotFound
		}

		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	return nil
}

type AddSongToPlaylistParams struct {
	PlaylistId     string
	VideoId        string
	VideoTitle     string
	VideoThumbnail string
}

func (s service) AddSongToPlaylist(ctx context.Context, params *AddSongToPlaylistParams) (PlaylistSong, error) {
	if _, err := s.roomRepo.GetPlaylist(ctx, params.PlaylistId); err != nil {
		if errors.Is(err, room.ErrPlaylistNotFound) {
			return PlaylistSong{}, ErrPlaylistNotFound
		}

		return PlaylistSong{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	songId := uuid.NewString()
	createdAt := time.Now()

	position, err := s.roomRepo.SetPlaylistSong(ctx, &room.SetPlaylistSongParams{
		SongId:         songId,
		PlaylistId:     params.PlaylistId,
		VideoId:        params.VideoId,
		VideoTitle:     params.VideoTitle,
		VideoThumbnail: params.VideoThumbnail,
		CreatedAt:      createdAt.UnixNano(),
	})
	if err != nil {
		return PlaylistSong{}, fmt.Errorf("failed to add song to playlist: %w", err)
	}

	return PlaylistSong{
		Id:             songId,
		PlaylistId:     params.PlaylistId,
		VideoId:        params.VideoId,
		VideoTitle:     params.VideoTitle,
		VideoThumbnail: params.VideoThumbnail,
		Position:       position,
		CreatedAt:      createdAt,
	}, nil
}

// GetPlaylistSongs returns the playlist's songs ascending by position.
func (s service) GetPlaylistSongs(ctx context.Context, playlistId string) ([]PlaylistSong, error) {
	if _, err := s.roomRepo.GetPlaylist(ctx, playlistId); err != nil {
		if errors.Is(err, room.ErrPlaylistNotFound) {
			return nil, ErrPlaylistNotFound
		}

		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	songIds, err := s.roomRepo.GetPlaylistSongIds(ctx, playlistId)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist song ids: %w", err)
	}

	songs := make([]PlaylistSong, 0, len(songIds))
	for _, songId := range songIds {
		model, err := s.roomRepo.GetPlaylistSong(ctx, songId)
		if err != nil {
			if errors.Is(err, room.ErrPlaylistSongNotFound) {
				continue
			}

			return nil, fmt.Errorf("failed to get playlist song: %w", err)
		}

		songs = append(songs, PlaylistSong{
			Id:             songId,
			PlaylistId:     model.PlaylistId,
			VideoId:        model.VideoId,
			VideoTitle:     model.VideoTitle,
			VideoThumbnail: model.VideoThumbnail,
			Position:       model.Position,
			CreatedAt:      time.Unix(0, model.CreatedAt),
		})
	}

	return songs, nil
}

type RemoveSongFromPlaylistParams struct {
	SongId     string
	PlaylistId string
}

func (s service) RemoveSongFromPlaylist(ctx context.Context, params *RemoveSongFromPlaylistParams) error {
	if err := s.roomRepo.RemovePlaylistSong(ctx, &room.RemovePlaylistSongParams{
		SongId:     params.SongId,
		PlaylistId: params.PlaylistId,
	}); err != nil {
		if errors.Is(err, room.ErrPlaylistSongNotFound) {
			return nil
		}

		return fmt.Errorf("failed to remove playlist song: %w", err)
	}

	return nil
}
