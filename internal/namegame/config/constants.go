package config

// 서비스 기본값.
const (
	// DefaultServerPort: HTTP/WebSocket 서버 기본 포트
	DefaultServerPort = 40280

	// DefaultMaxPlayers: 게임당 최대 플레이어 수
	DefaultMaxPlayers = 8
	// DefaultMaxRounds: 게임당 라운드 수
	DefaultMaxRounds = 3
	// DefaultRoundTimerSeconds: 라운드 제출 타이머 길이 (초)
	DefaultRoundTimerSeconds = 30
	// DefaultDisconnectGraceSeconds: 연결 끊김 후 퇴출까지의 유예 시간 (초)
	DefaultDisconnectGraceSeconds = 120

	// DefaultSessionTTLSeconds: 플레이어 세션 저장소 TTL (초)
	DefaultSessionTTLSeconds = 24 * 60 * 60

	// DefaultDictionaryBaseURL: Wiktionary extracts API 엔드포인트
	DefaultDictionaryBaseURL = "https://en.wiktionary.org/w/api.php"
	// DefaultDictionaryTimeoutSeconds: 사전 조회 HTTP 타임아웃 (초)
	DefaultDictionaryTimeoutSeconds = 5
	// DefaultDictionaryCacheTTLSeconds: 단어 판정 캐시 TTL (초)
	DefaultDictionaryCacheTTLSeconds = 24 * 60 * 60
	// DefaultDictionaryCacheMaxEntries: 단어 판정 LRU 캐시 최대 엔트리 수
	DefaultDictionaryCacheMaxEntries = 4096
)

// Redis 키 접두사.
const (
	// RedisKeySessionPrefix: 플레이어 세션 키 접두사 (namegame:session:{playerID})
	RedisKeySessionPrefix = "namegame:session"
)
