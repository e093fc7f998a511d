package repository

import "time"

// GameRecord: 완료된 게임 한 판의 기록
type GameRecord struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GameID       string    `gorm:"column:game_id;not null;uniqueIndex"`
	Categories   string    `gorm:"column:categories;not null"`
	UsedLetters  string    `gorm:"column:used_letters;not null"`
	RoundsPlayed int       `gorm:"column:rounds_played;not null"`
	PlayerCount  int       `gorm:"column:player_count;not null"`
	FinishedAt   time.Time `gorm:"column:finished_at;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (GameRecord) TableName() string { return "game_records" }

// PlayerRecord: 게임별 플레이어 최종 성적
type PlayerRecord struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GameID            string    `gorm:"column:game_id;not null;index"`
	PlayerID          string    `gorm:"column:player_id;not null;index"`
	PlayerName        string    `gorm:"column:player_name;not null"`
	FinalScore        int       `gorm:"column:final_score;not null"`
	UniqueWords       int       `gorm:"column:unique_words;not null;default:0"`
	PerfectRounds     int       `gorm:"column:perfect_rounds;not null;default:0"`
	RareWords         int       `gorm:"column:rare_words;not null;default:0"`
	LongestWord       string    `gorm:"column:longest_word;not null;default:''"`
	FastestSubmission float64   `gorm:"column:fastest_submission;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

func (PlayerRecord) TableName() string { return "player_records" }
