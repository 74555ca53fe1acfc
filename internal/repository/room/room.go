package room

type Room struct {
	Code       string `redis:"code"`
	Name       string `redis:"name"`
	Type       string `redis:"type"`
	HostUserId string `redis:"host_user_id"`
	IsActive   bool   `redis:"is_active"`
	CreatedAt  int64  `redis:"created_at"`
}

type SetRoomParams struct {
	RoomId     string
	Code       string
	Name       string
	Type       string
	HostUserId string
	CreatedAt  int64
}
