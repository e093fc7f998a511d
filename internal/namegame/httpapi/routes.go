// Package httpapi: 게임 상태 조회와 WebSocket 업그레이드 라우트를 제공한다.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ast4/namegame-go/internal/common/health"
	"github.com/ast4/namegame-go/internal/common/httputil"
	"github.com/ast4/namegame-go/internal/namegame/engine"
	"github.com/ast4/namegame-go/internal/namegame/hub"
	"github.com/ast4/namegame-go/internal/namegame/model"
)

// Register HTTP API 라우트 등록. 반환된 핸들러를 서버에 물린다.
func Register(
	mux *http.ServeMux,
	eng *engine.Engine,
	wsHub *hub.Hub,
	logger *slog.Logger,
) http.Handler {
	// GET /health - 헬스체크
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, health.Get())
	})

	// GET /ws - WebSocket 업그레이드
	mux.HandleFunc("GET /ws", wsHub.ServeWS)

	// GET /api/games/{id} - 게임 상태 조회
	mux.HandleFunc("GET /api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleGameStatus(w, r, eng, wsHub, logger)
	})

	logger.Info("namegame_http_api_registered")
	return otelhttp.NewHandler(mux, "namegame-http")
}

type (
	// GameStatusResponse: 외부 조회용 게임 상태 DTO.
	// 원시 제출 답안과 채팅은 노출하지 않는다.
	GameStatusResponse struct {
		ID             string              `json:"id"`
		Phase          string              `json:"phase"`
		CurrentRound   int                 `json:"currentRound"`
		MaxRounds      int                 `json:"maxRounds"`
		CurrentLetter  string              `json:"currentLetter,omitempty"`
		UsedLetters    []string            `json:"usedLetters"`
		Categories     []string            `json:"selectedCategories"`
		Players        []PlayerStatus      `json:"players"`
		RoundResults   []model.RoundResult `json:"roundResults"`
		ConnectedCount int                 `json:"connectedCount"`
		CreatedAt      time.Time           `json:"createdAt"`
	}

	// PlayerStatus: 플레이어 공개 정보 DTO
	PlayerStatus struct {
		ID           string            `json:"id"`
		Name         string            `json:"name"`
		Score        int               `json:"score"`
		IsHost       bool              `json:"isHost"`
		HasSubmitted bool              `json:"hasSubmitted"`
		Disconnected bool              `json:"disconnected"`
		Stats        model.PlayerStats `json:"stats"`
	}
)

func handleGameStatus(
	w http.ResponseWriter,
	r *http.Request,
	eng *engine.Engine,
	wsHub *hub.Hub,
	logger *slog.Logger,
) {
	gameID := r.PathValue("id")
	if gameID == "" {
		respondError(w, http.StatusBadRequest, "game id is required")
		return
	}

	var resp GameStatusResponse
	found := eng.InspectGame(gameID, func(game *model.Game) {
		resp = GameStatusResponse{
			ID:            game.ID,
			Phase:         string(game.Phase),
			CurrentRound:  game.CurrentRound,
			MaxRounds:     game.MaxRounds,
			CurrentLetter: game.CurrentLetter,
			UsedLetters:   append([]string(nil), game.UsedLetters...),
			Categories:    append([]string(nil), game.SelectedCategories...),
			RoundResults:  append([]model.RoundResult(nil), game.RoundResults...),
			CreatedAt:     game.CreatedAt,
		}
		for _, p := range game.Players {
			resp.Players = append(resp.Players, PlayerStatus{
				ID:           p.ID,
				Name:         p.Name,
				Score:        p.Score,
				IsHost:       p.IsHost,
				HasSubmitted: p.HasSubmitted,
				Disconnected: p.Disconnected,
				Stats:        p.Stats,
			})
		}
	})
	if !found {
		logger.Debug("game_status_not_found", "game_id", gameID)
		respondError(w, http.StatusNotFound, "Game not found")
		return
	}

	resp.ConnectedCount = wsHub.ConnectedCount(gameID)
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	_ = httputil.WriteJSON(w, status, data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
