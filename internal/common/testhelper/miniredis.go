package testhelper

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

// NewMiniredisClient: 인메모리 miniredis 서버와 이에 연결된 Valkey 클라이언트를 생성합니다.
// 서버와 클라이언트는 테스트 종료 시 자동으로 정리됩니다.
func NewMiniredisClient(t *testing.T) (*miniredis.Miniredis, valkey.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("failed to create valkey client: %v", err)
	}
	t.Cleanup(client.Close)

	return mr, client
}
