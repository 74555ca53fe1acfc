package room

import "time"

type Room struct {
	Id         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	HostUserId string    `json:"host_user_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type QueueItem struct {
	Id             string    `json:"id"`
	RoomId         string    `json:"room_id"`
	VideoId        string    `json:"video_id"`
	VideoTitle     string    `json:"video_title"`
	VideoThumbnail string    `json:"video_thumbnail"`
	AddedByUserId  string    `json:"added_by_user_id,omitempty"`
	AddedByName    string    `json:"added_by_name,omitempty"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

type Playlist struct {
	Id          string    `json:"id"`
	OwnerId     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

type PlaylistSong struct {
	Id             string    `json:"id"`
	PlaylistId     string    `json:"playlist_id"`
	VideoId        string    `json:"video_id"`
	VideoTitle     string    `json:"video_title"`
	VideoThumbnail string    `json:"video_thumbnail"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}
