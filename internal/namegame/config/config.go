package config

import (
	"fmt"
	"time"

	commonconfig "github.com/ast4/namegame-go/internal/common/config"
)

// ServerConfig: HTTP/WebSocket 서버 설정입니다.
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 성능 튜닝 옵션입니다.
type ServerTuningConfig = commonconfig.ServerTuningConfig

// RedisConfig: Redis/Valkey 세션 저장소 연결 설정입니다.
type RedisConfig = commonconfig.RedisConfig

// PostgresConfig: 완료 게임 아카이브 DB 설정입니다.
type PostgresConfig = commonconfig.PostgresConfig

// LogConfig: 로그 출력 설정입니다.
type LogConfig = commonconfig.LogConfig

// GameConfig: 게임 규칙 관련 설정입니다.
type GameConfig struct {
	MaxPlayers      int           // 게임당 최대 인원
	MaxRounds       int           // 게임당 라운드 수
	RoundTimer      time.Duration // 라운드 제출 타이머 길이
	DisconnectGrace time.Duration // 연결 끊김 후 퇴출 유예 시간
	SessionTTL      time.Duration // 플레이어 세션 TTL
}

// DictionaryConfig: 외부 단어 판정(Wiktionary) 설정입니다.
type DictionaryConfig struct {
	BaseURL         string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Config: Name Game 서비스 전체 설정을 통합하는 구조체입니다.
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Game         GameConfig
	Dictionary   DictionaryConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	Log          LogConfig
}

// LoadFromEnv: 환경 변수에서 전체 설정을 읽어옵니다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	game, err := readGameConfig()
	if err != nil {
		return nil, err
	}
	dictionary, err := readDictionaryConfig()
	if err != nil {
		return nil, err
	}
	redis, err := commonconfig.ReadRedisConfigFromEnv("localhost", 6379)
	if err != nil {
		return nil, fmt.Errorf("read redis config failed: %w", err)
	}
	postgres, err := commonconfig.ReadPostgresConfigFromEnv("namegame", "namegame_app")
	if err != nil {
		return nil, fmt.Errorf("read postgres config failed: %w", err)
	}
	log, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}

	return &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Game:         game,
		Dictionary:   dictionary,
		Redis:        redis,
		Postgres:     postgres,
		Log:          log,
	}, nil
}

func readGameConfig() (GameConfig, error) {
	maxPlayers, err := commonconfig.IntFromEnv("NAMEGAME_MAX_PLAYERS", DefaultMaxPlayers)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read NAMEGAME_MAX_PLAYERS failed: %w", err)
	}
	if maxPlayers < 2 {
		return GameConfig{}, fmt.Errorf("invalid NAMEGAME_MAX_PLAYERS: %d", maxPlayers)
	}

	maxRounds, err := commonconfig.IntFromEnv("NAMEGAME_MAX_ROUNDS", DefaultMaxRounds)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read NAMEGAME_MAX_ROUNDS failed: %w", err)
	}
	if maxRounds < 1 {
		return GameConfig{}, fmt.Errorf("invalid NAMEGAME_MAX_ROUNDS: %d", maxRounds)
	}

	roundTimer, err := commonconfig.DurationSecondsFromEnv(
		"NAMEGAME_ROUND_TIMER_SECONDS",
		DefaultRoundTimerSeconds,
	)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read NAMEGAME_ROUND_TIMER_SECONDS failed: %w", err)
	}

	disconnectGrace, err := commonconfig.DurationSecondsFromEnv(
		"NAMEGAME_DISCONNECT_GRACE_SECONDS",
		DefaultDisconnectGraceSeconds,
	)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read NAMEGAME_DISCONNECT_GRACE_SECONDS failed: %w", err)
	}

	sessionTTL, err := commonconfig.DurationSecondsFromEnv(
		"NAMEGAME_SESSION_TTL_SECONDS",
		DefaultSessionTTLSeconds,
	)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read NAMEGAME_SESSION_TTL_SECONDS failed: %w", err)
	}

	return GameConfig{
		MaxPlayers:      maxPlayers,
		MaxRounds:       maxRounds,
		RoundTimer:      roundTimer,
		DisconnectGrace: disconnectGrace,
		SessionTTL:      sessionTTL,
	}, nil
}

func readDictionaryConfig() (DictionaryConfig, error) {
	timeout, err := commonconfig.DurationSecondsFromEnv(
		"DICTIONARY_TIMEOUT_SECONDS",
		DefaultDictionaryTimeoutSeconds,
	)
	if err != nil {
		return DictionaryConfig{}, fmt.Errorf("read DICTIONARY_TIMEOUT_SECONDS failed: %w", err)
	}

	cacheTTL, err := commonconfig.DurationSecondsFromEnv(
		"DICTIONARY_CACHE_TTL_SECONDS",
		DefaultDictionaryCacheTTLSeconds,
	)
	if err != nil {
		return DictionaryConfig{}, fmt.Errorf("read DICTIONARY_CACHE_TTL_SECONDS failed: %w", err)
	}

	cacheMaxEntries, err := commonconfig.IntFromEnv(
		"DICTIONARY_CACHE_MAX_ENTRIES",
		DefaultDictionaryCacheMaxEntries,
	)
	if err != nil {
		return DictionaryConfig{}, fmt.Errorf("read DICTIONARY_CACHE_MAX_ENTRIES failed: %w", err)
	}
	if cacheMaxEntries <= 0 {
		return DictionaryConfig{}, fmt.Errorf("invalid DICTIONARY_CACHE_MAX_ENTRIES: %d", cacheMaxEntries)
	}

	return DictionaryConfig{
		BaseURL:         commonconfig.StringFromEnv("DICTIONARY_BASE_URL", DefaultDictionaryBaseURL),
		Timeout:         timeout,
		CacheTTL:        cacheTTL,
		CacheMaxEntries: cacheMaxEntries,
	}, nil
}
