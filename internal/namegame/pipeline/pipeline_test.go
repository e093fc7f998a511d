package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/ast4/namegame-go/internal/namegame/dictionary"
	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
)

// stubValidator: 사전 판정을 고정된 단어 집합으로 흉내낸다.
type stubValidator struct {
	mu     sync.Mutex
	valid  map[string]bool
	failed bool
	calls  int
}

func (s *stubValidator) Validate(ctx context.Context, word, category string) (dictionary.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.failed {
		return dictionary.Result{}, ngerrors.DictionaryError{Word: word}
	}
	key := strings.ToLower(word)
	return dictionary.Result{IsValid: s.valid[key], Extract: "extract for " + key}, nil
}

func TestQueueSubmission_StartLetterGate(t *testing.T) {
	validator := &stubValidator{valid: map[string]bool{"bear": true}}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "B")

	validated, err := p.QueueSubmission(context.Background(), "g1", "p1", map[string]string{
		"animals": "Bear",
		"things":  "Chair",
	})
	if err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}

	bear := validated["animals"]
	if !bear.IsStartValid || !bear.Validation.IsValid || !bear.Valid() {
		t.Errorf("Bear should be fully valid, got %+v", bear)
	}

	chair := validated["things"]
	if chair.IsStartValid || chair.Valid() {
		t.Errorf("Chair must fail the start letter gate, got %+v", chair)
	}
	if chair.Validation.Extract != StartLetterNote {
		t.Errorf("expected fixed start letter note, got %q", chair.Validation.Extract)
	}
	if validator.calls != 1 {
		t.Errorf("start-invalid word must skip the remote check, calls=%d", validator.calls)
	}
}

func TestQueueSubmission_CaseInsensitiveLetter(t *testing.T) {
	validator := &stubValidator{valid: map[string]bool{"badger": true}}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "b")

	validated, err := p.QueueSubmission(context.Background(), "g1", "p1", map[string]string{
		"animals": "Badger",
	})
	if err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}
	if !validated["animals"].Valid() {
		t.Errorf("uppercase word must match lowercase letter, got %+v", validated["animals"])
	}
}

func TestQueueSubmission_MultibyteLetter(t *testing.T) {
	validator := &stubValidator{valid: map[string]bool{"éclair": true}}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "É")

	validated, err := p.QueueSubmission(context.Background(), "g1", "p1", map[string]string{
		"things": "éclair",
	})
	if err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}
	eclair := validated["things"]
	if !eclair.IsStartValid {
		t.Errorf("multibyte first letter must pass the start gate, got %+v", eclair)
	}
	if !eclair.Valid() {
		t.Errorf("éclair should be fully valid, got %+v", eclair)
	}
}

func TestQueueSubmission_DictionaryFailureFallsBack(t *testing.T) {
	validator := &stubValidator{failed: true}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "B")

	validated, err := p.QueueSubmission(context.Background(), "g1", "p1", map[string]string{
		"animals": "Badger",
	})
	if err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}
	if !validated["animals"].Valid() {
		t.Errorf("reasonable word must pass fallback when dictionary is down, got %+v", validated["animals"])
	}
}

func TestQueueSubmission_EmptyWord(t *testing.T) {
	validator := &stubValidator{}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "B")

	validated, err := p.QueueSubmission(context.Background(), "g1", "p1", map[string]string{
		"animals": "  ",
	})
	if err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}
	if validated["animals"].Valid() {
		t.Error("empty word must be invalid")
	}
	if validator.calls != 0 {
		t.Errorf("empty word must not reach the validator, calls=%d", validator.calls)
	}
}

func TestGetGameResults_AndClear(t *testing.T) {
	validator := &stubValidator{valid: map[string]bool{"bear": true, "box": true}}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "B")
	ctx := context.Background()

	if _, ok := p.GetGameResults("g1"); ok {
		t.Error("expected no results before any submission")
	}

	if _, err := p.QueueSubmission(ctx, "g1", "p1", map[string]string{"animals": "Bear"}); err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}
	if _, err := p.QueueSubmission(ctx, "g1", "p2", map[string]string{"things": "Box"}); err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}

	results, ok := p.GetGameResults("g1")
	if !ok {
		t.Fatal("expected results after submissions")
	}
	if len(results) != 2 {
		t.Errorf("expected 2 players, got %d", len(results))
	}
	if !results["p1"]["animals"].Valid() || !results["p2"]["things"].Valid() {
		t.Errorf("unexpected results: %+v", results)
	}

	p.ClearGame("g1")
	if _, ok := p.GetGameResults("g1"); ok {
		t.Error("expected results to be cleared")
	}
}

func TestQueueSubmission_ResubmitOverwrites(t *testing.T) {
	validator := &stubValidator{valid: map[string]bool{"bear": true, "badger": true}}
	p := New(validator, nil)
	p.SetCurrentLetter("g1", "B")
	ctx := context.Background()

	if _, err := p.QueueSubmission(ctx, "g1", "p1", map[string]string{"animals": "Bear"}); err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}
	if _, err := p.QueueSubmission(ctx, "g1", "p1", map[string]string{"animals": "Badger"}); err != nil {
		t.Fatalf("QueueSubmission() unexpected error: %v", err)
	}

	results, ok := p.GetGameResults("g1")
	if !ok {
		t.Fatal("expected results")
	}
	if got := results["p1"]["animals"].Word; got != "Badger" {
		t.Errorf("last submission must win, got %q", got)
	}
}
