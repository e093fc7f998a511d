package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/ast4/namegame-go/internal/namegame/model"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repo := New(db)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("AutoMigrate() unexpected error: %v", err)
	}
	return repo
}

func finishedGame() *model.Game {
	host := model.NewPlayer("p1", "alice", true)
	host.Score = 35
	host.Stats.UniqueWords = 3
	host.Stats.LongestWord = "badger"
	host.Stats.FastestSubmission = 4.2

	guest := model.NewPlayer("p2", "bob", false)
	guest.Score = 20
	guest.Stats.PerfectRounds = 1

	game := model.NewGame("g1", host, []string{"animals", "things"}, 3)
	game.Players = append(game.Players, guest)
	game.UsedLetters = []string{"B", "C", "D"}
	game.CurrentRound = 3
	game.Phase = model.PhaseFinished
	game.FinishedAt = time.Now()
	return game
}

func TestArchiveGame(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.ArchiveGame(ctx, finishedGame()); err != nil {
		t.Fatalf("ArchiveGame() unexpected error: %v", err)
	}

	count, err := repo.GameCount(ctx)
	if err != nil {
		t.Fatalf("GameCount() unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 game record, got %d", count)
	}

	var record GameRecord
	if err := repo.db.First(&record, "game_id = ?", "g1").Error; err != nil {
		t.Fatalf("load game record failed: %v", err)
	}
	if record.RoundsPlayed != 3 || record.PlayerCount != 2 {
		t.Errorf("unexpected record: rounds=%d players=%d", record.RoundsPlayed, record.PlayerCount)
	}
	if record.Categories != "animals,things" {
		t.Errorf("unexpected categories: %s", record.Categories)
	}
	if record.UsedLetters != "B,C,D" {
		t.Errorf("unexpected letters: %s", record.UsedLetters)
	}

	var players []PlayerRecord
	if err := repo.db.Order("player_id").Find(&players, "game_id = ?", "g1").Error; err != nil {
		t.Fatalf("load player records failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 player records, got %d", len(players))
	}
	if players[0].FinalScore != 35 || players[0].LongestWord != "badger" {
		t.Errorf("unexpected host record: %+v", players[0])
	}
	if players[1].PerfectRounds != 1 {
		t.Errorf("unexpected guest record: %+v", players[1])
	}
}

func TestArchiveGame_DuplicateGameID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.ArchiveGame(ctx, finishedGame()); err != nil {
		t.Fatalf("ArchiveGame() unexpected error: %v", err)
	}
	// game_id 는 유니크하므로 같은 판을 두 번 기록할 수 없다
	if err := repo.ArchiveGame(ctx, finishedGame()); err == nil {
		t.Fatal("expected unique constraint violation")
	}

	count, err := repo.GameCount(ctx)
	if err != nil {
		t.Fatalf("GameCount() unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate archive must not add records, got %d", count)
	}
}
