package room

// QueueEntry is the stored form of one queued video. PlayedAt is a unix
// timestamp, zero meaning not yet played. CreatedAt is unix nanoseconds so
// it can break ties between entries that raced to the same position.
type QueueEntry struct {
	RoomId         string `redis:"room_id"`
	VideoId        string `redis:"video_id"`
	VideoTitle     string `redis:"video_title"`
	VideoThumbnail string `redis:"video_thumbnail"`
	AddedByUserId  string `redis:"added_by_user_id"`
	AddedByName    string `redis:"added_by_name"`
	Position       int    `redis:"position"`
	PlayedAt       int64  `redis:"played_at"`
	CreatedAt      int64  `redis:"created_at"`
}

type SetQueueEntryParams struct {
	EntryId        string
	RoomId         string
	VideoId        string
	VideoTitle     string
	VideoThumbnail string
	AddedByUserId  string
	AddedByName    string
	CreatedAt      int64
}

type RemoveQueueEntryParams struct {
	EntryId string
	RoomId  string
}

type MarkQueueEntryPlayedParams struct {
	EntryId  string
	RoomId   string
	PlayedAt int64
}

type UpdateQueueEntryPositionParams struct {
	EntryId  string
	RoomId   string
	Position int
}
