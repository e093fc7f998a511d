package valkeyx

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

// 단순 키-값 접근 헬퍼 함수들

// GetBytes: 키의 값을 바이트 슬라이스로 조회한다.
// 키가 없으면 (nil, false, nil)을 반환한다.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	cmd := client.B().Get().Key(key).Build()
	raw, err := client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// SetStringEX: 키에 문자열 값을 저장한다. ttl이 양수이면 만료 시간을 함께 설정한다.
func SetStringEX(ctx context.Context, client valkey.Client, key, value string, ttl time.Duration) error {
	if ttl > 0 {
		cmd := client.B().Set().Key(key).Value(value).Ex(ttl).Build()
		return client.Do(ctx, cmd).Error()
	}
	cmd := client.B().Set().Key(key).Value(value).Build()
	return client.Do(ctx, cmd).Error()
}

// DeleteKeys: 주어진 키들을 삭제한다.
func DeleteKeys(ctx context.Context, client valkey.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := client.B().Del().Key(keys...).Build()
	return client.Do(ctx, cmd).Error()
}
