// Package messages: 사용자에게 노출되는 메시지 키 목록.
// 실제 문구는 assets/messages/game-messages.yml 에 있다.
package messages

const (
	// PlayerRemovedByHost: 호스트가 플레이어를 내보낼 때 당사자에게 보내는 안내
	PlayerRemovedByHost = "removal.by-host"

	// VotingInterrupted: 호스트가 투표를 중단했을 때의 전체 공지
	VotingInterrupted = "voting.interrupted"

	// JoinGameFull: 정원 초과로 합류가 거부될 때의 안내
	JoinGameFull = "join.game-full"

	// JoinInProgress: 진행 중인 게임에 합류하려 할 때의 안내
	JoinInProgress = "join.in-progress"
)
