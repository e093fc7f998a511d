package model

import (
	"testing"
)

func TestParseVote(t *testing.T) {
	tests := []struct {
		input   string
		want    Vote
		wantErr bool
	}{
		{"yes", VoteYes, false},
		{"NO", VoteNo, false},
		{"  Idk  ", VoteIDK, false},
		{"", "", true},
		{"maybe", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVote(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVote(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVote(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVote(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGame_Helpers(t *testing.T) {
	host := NewPlayer("p1", "alice", true)
	game := NewGame("g1", host, []string{"animals", "things"}, 3)

	t.Run("NewGame", func(t *testing.T) {
		if game.Phase != PhaseLobby {
			t.Errorf("expected lobby phase, got %s", game.Phase)
		}
		if len(game.Players) != 1 || !game.Players[0].IsHost {
			t.Error("host should be the only player")
		}
		if game.MaxRounds != 3 {
			t.Errorf("unexpected max rounds: %d", game.MaxRounds)
		}
	})

	t.Run("FindPlayer", func(t *testing.T) {
		if _, ok := game.FindPlayer("p1"); !ok {
			t.Error("expected to find host")
		}
		if _, ok := game.FindPlayer("missing"); ok {
			t.Error("expected miss for unknown player")
		}
	})

	t.Run("Host", func(t *testing.T) {
		h, ok := game.Host()
		if !ok || h.ID != "p1" {
			t.Errorf("unexpected host: %+v", h)
		}
	})

	t.Run("IsLetterUsed", func(t *testing.T) {
		game.UsedLetters = append(game.UsedLetters, "B")
		if !game.IsLetterUsed("b") {
			t.Error("letter check must be case-insensitive")
		}
		if game.IsLetterUsed("C") {
			t.Error("unused letter reported as used")
		}
	})

	t.Run("AllSubmitted", func(t *testing.T) {
		game.Players = append(game.Players, NewPlayer("p2", "bob", false))
		if game.AllSubmitted() {
			t.Error("no one submitted yet")
		}
		game.Players[0].HasSubmitted = true
		game.Players[1].Disconnected = true
		if !game.AllSubmitted() {
			t.Error("disconnected players must not block submission completion")
		}
	})

	t.Run("RemovePlayer", func(t *testing.T) {
		if !game.RemovePlayer("p2") {
			t.Error("expected removal to succeed")
		}
		if game.RemovePlayer("p2") {
			t.Error("second removal should fail")
		}
		if len(game.Players) != 1 {
			t.Errorf("unexpected player count: %d", len(game.Players))
		}
	})
}

func TestNameValidation_YesNoCounts(t *testing.T) {
	nv := &NameValidation{
		Word:     "Boris",
		PlayerID: "p1",
		Votes: map[string]Vote{
			"p2": VoteYes,
			"p3": VoteNo,
			"p4": VoteIDK,
			"p5": VoteYes,
		},
	}

	yes, no := nv.YesNoCounts()
	if yes != 2 || no != 1 {
		t.Errorf("YesNoCounts() = (%d, %d), want (2, 1)", yes, no)
	}
}
