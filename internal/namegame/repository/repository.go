// Package repository: 완료된 게임의 아카이브를 GORM으로 기록한다.
// Postgres 설정이 없으면 아카이브는 비활성화되고 게임 진행에는 영향이 없다.
package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ast4/namegame-go/internal/namegame/model"
)

// Repository: DB 접근을 위한 GORM 기반 리포지토리
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스를 생성한다.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 자동으로 DB 테이블 스키마를 마이그레이션한다.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(
		&GameRecord{},
		&PlayerRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}

// ArchiveGame: 완료된 게임 스냅샷을 한 트랜잭션으로 기록한다.
func (r *Repository) ArchiveGame(ctx context.Context, game *model.Game) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}

	record := GameRecord{
		GameID:       game.ID,
		Categories:   strings.Join(game.SelectedCategories, ","),
		UsedLetters:  strings.Join(game.UsedLetters, ","),
		RoundsPlayed: game.CurrentRound,
		PlayerCount:  len(game.Players),
		FinishedAt:   game.FinishedAt,
	}

	players := make([]PlayerRecord, 0, len(game.Players))
	for _, p := range game.Players {
		players = append(players, PlayerRecord{
			GameID:            game.ID,
			PlayerID:          p.ID,
			PlayerName:        p.Name,
			FinalScore:        p.Score,
			UniqueWords:       p.Stats.UniqueWords,
			PerfectRounds:     p.Stats.PerfectRounds,
			RareWords:         p.Stats.RareWords,
			LongestWord:       p.Stats.LongestWord,
			FastestSubmission: p.Stats.FastestSubmission,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(players) > 0 {
			if err := tx.Create(&players).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive game %s failed: %w", game.ID, err)
	}
	return nil
}

// GameCount: 기록된 게임 수. 운영 점검용.
func (r *Repository) GameCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&GameRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count game records failed: %w", err)
	}
	return count, nil
}
