package assets

import _ "embed" // 에셋 임베드용

// GameMessagesYAML: 이름 게임 사용자 노출 메시지 YAML입니다.
//
//go:embed messages/game-messages.yml
var GameMessagesYAML string
