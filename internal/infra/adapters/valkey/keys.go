package valkey

const (
	roomPrefix     = "room:"
	queuePrefix    = "queue:"
	socketPrefix   = "socket:"
	playlistPrefix = "playlist:"
	eventsPrefix   = "events:"

	publicRoomsKey = "rooms:public"
	eventsPattern  = eventsPrefix + "*"
)

func roomKey(id string) string {
	return roomPrefix + id
}

func queueKey(roomID string) string {
	return queuePrefix + roomID
}

func socketKey(connID string) string {
	return socketPrefix + connID
}

func playlistKey(playlistID string) string {
	return playlistPrefix + playlistID
}

func eventsChannel(roomID string) string {
	return eventsPrefix + roomID
}
