package t2048

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMarshalStateRoundTrip(t *testing.T) {
	state := GameState{
		Board: MustBoard([][]int{
			{2, 4, 8, 16},
			{0, 0, 0, 0},
			{2048, 0, 0, 2},
			{0, 0, 4, 0},
		}),
		Score:     20480,
		MoveCount: 900,
		Won:       true,
	}

	data, err := MarshalState(state)
	if err != nil {
		t.Fatalf("MarshalState() failed: %v", err)
	}
	for _, field := range []string{`"version":1`, `"board":[2,4,8,16,`, `"moveCount":900`, `"isWon":true`, `"isGameOver":false`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded save %s is missing %s", data, field)
		}
	}

	got, err := UnmarshalState(data)
	if err != nil {
		t.Fatalf("UnmarshalState() failed: %v", err)
	}
	if !got.Equal(state) {
		t.Errorf("round trip = %+v, want %+v", got, state)
	}
}

func TestUnmarshalStateRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"future version", `{"version":2,"board":[0,0,0,0],"size":2}`, ErrUnsupportedVersion},
		{"missing version", `{"board":[0,0,0,0],"size":2}`, ErrUnsupportedVersion},
		{"short board", `{"version":1,"board":[0,0,0],"size":2}`, ErrInvalidArgument},
		{"zero size", `{"version":1,"board":[],"size":0}`, ErrInvalidArgument},
		{"not a power of two", `{"version":1,"board":[3,0,0,0],"size":2}`, ErrInvalidArgument},
		{"negative tile", `{"version":1,"board":[-2,0,0,0],"size":2}`, ErrInvalidArgument},
		{"negative score", `{"version":1,"board":[0,0,0,0],"size":2,"score":-4}`, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalState([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("UnmarshalState() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := UnmarshalState([]byte(`{"version":`)); err == nil {
		t.Error("UnmarshalState() should reject malformed JSON")
	}
}

func playedSession(t *testing.T, seed int64, moves int) *Session {
	t.Helper()
	s, err := New(DefaultConfig(), NewRandomSource(seed))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for i := range moves {
		s.Move(Directions[i%len(Directions)])
	}
	return s
}

func TestSessionSnapshotJSON(t *testing.T) {
	s := playedSession(t, 5, 12)
	s.Undo()

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	if !strings.Contains(string(data), `"direction":"`) {
		t.Errorf("directions should encode by name: %s", data)
	}

	var snap SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}

	restored, err := RestoreSession(snap, DefaultConfig(), NewRandomSource(1))
	if err != nil {
		t.Fatalf("RestoreSession() failed: %v", err)
	}
	if !restored.State().Equal(s.State()) {
		t.Errorf("restored board\n%v\nwant\n%v", restored.State().Board, s.State().Board)
	}
	if restored.Cursor() != s.Cursor() || !restored.CanRedo() {
		t.Errorf("restored cursor = %d, canRedo = %v; want %d, true", restored.Cursor(), restored.CanRedo(), s.Cursor())
	}
}

func TestRestoreSessionFallsBack(t *testing.T) {
	s := playedSession(t, 8, 10)

	snap := s.Snapshot()
	snap.Cursor = len(snap.History) + 5

	restored, err := RestoreSession(snap, DefaultConfig(), NewRandomSource(1))
	if err != nil {
		t.Fatalf("RestoreSession() failed: %v", err)
	}
	if !restored.State().Equal(s.State()) {
		t.Error("fallback should resume from the current state")
	}
	if restored.CanUndo() {
		t.Error("fallback session should have no history")
	}

	// A history that replays but disagrees with the saved current state is also dropped.
	snap = s.Snapshot()
	snap.Current.Score += 100
	restored, err = RestoreSession(snap, DefaultConfig(), NewRandomSource(1))
	if err != nil {
		t.Fatalf("RestoreSession() failed: %v", err)
	}
	if restored.State().Score != s.State().Score+100 || restored.CanUndo() {
		t.Errorf("restored score = %d, canUndo = %v", restored.State().Score, restored.CanUndo())
	}

	snap = s.Snapshot()
	snap.Current.Version = 0
	if _, err := RestoreSession(snap, DefaultConfig(), NewRandomSource(1)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("RestoreSession() with bad current error = %v, want ErrUnsupportedVersion", err)
	}
}
