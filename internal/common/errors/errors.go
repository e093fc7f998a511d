// Package errors: 서비스 전체에서 공용으로 사용되는 인프라 에러 타입들을 정의한다.
// 게임 도메인 특화 에러는 internal/namegame/errors 에서 확장한다.
package errors

import "fmt"

// RedisError: Redis/Valkey 작업을 수행하는 도중 발생한 에러
type RedisError struct {
	Operation string
	Err       error
}

func (e RedisError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("redis error operation=%s", e.Operation)
	}
	return fmt.Sprintf("redis error operation=%s: %v", e.Operation, e.Err)
}

func (e RedisError) Unwrap() error { return e.Err }

// DatabaseError: 데이터베이스(PostgreSQL 등) 작업을 수행하는 도중 발생한 에러
type DatabaseError struct {
	Operation string
	Err       error
}

func (e DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("db error operation=%s", e.Operation)
	}
	return fmt.Sprintf("db error operation=%s: %v", e.Operation, e.Err)
}

func (e DatabaseError) Unwrap() error { return e.Err }

// DictionaryError: 외부 사전 API 조회 중 발생한 에러
// 파이프라인 내부에서 흡수되고 로컬 휴리스틱으로 폴백한다.
type DictionaryError struct {
	Word string
	Err  error
}

func (e DictionaryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dictionary error word=%q", e.Word)
	}
	return fmt.Sprintf("dictionary error word=%q: %v", e.Word, e.Err)
}

func (e DictionaryError) Unwrap() error { return e.Err }
