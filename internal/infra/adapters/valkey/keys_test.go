package valkey

import "testing"

func TestKeys(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{roomKey("42"), "room:42"},
		{queueKey("42"), "queue:42"},
		{socketKey("c1"), "socket:c1"},
		{playlistKey("p1"), "playlist:p1"},
		{eventsChannel("42"), "events:42"},
		{eventsPattern, "events:*"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("expected %s, got %s", tt.want, tt.got)
		}
	}
}

func TestDecodeRoom(t *testing.T) {
	room, err := decodeRoom(`{"schema":1,"version":3,"id":"r1","numMembers":0}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if room.Version != 3 || room.Members == nil {
		t.Fatalf("unexpected room: %+v", room)
	}

	playing, err := decodeRoom(`{"schema":1,"id":"r1","currentSong":{"id":"s1"},"playback":4}`)
	if err != nil {
		t.Fatalf("decode playing room: %v", err)
	}

	if playing.Votes == nil || playing.Playback != 4 || playing.Validate() != nil {
		t.Fatalf("playing room must come back valid: %+v", playing)
	}

	if _, err = decodeRoom(`{"schema":99}`); err == nil {
		t.Fatal("newer schema must be rejected")
	}
}
