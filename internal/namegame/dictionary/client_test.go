package dictionary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ngconfig.DictionaryConfig{
		BaseURL:         srv.URL,
		Timeout:         2 * time.Second,
		CacheTTL:        time.Minute,
		CacheMaxEntries: 64,
	})
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	return client, srv
}

func extractResponse(extract string) string {
	return fmt.Sprintf(
		`{"query":{"pages":{"1234":{"extract":%q}}}}`,
		extract,
	)
}

func TestClient_Validate_CategoryKeyword(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, extractResponse("The badger is a burrowing mammal of the family Mustelidae."))
	}))

	result, err := client.Validate(context.Background(), "Badger", "animals")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Error("expected animal extract to validate for animals category")
	}
	if result.Extract == "" {
		t.Error("expected extract to be recorded")
	}
}

func TestClient_Validate_WrongCategory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, extractResponse("The badger is a burrowing mammal."))
	}))

	result, err := client.Validate(context.Background(), "Badger", "food")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if result.IsValid {
		t.Error("mammal extract must not validate for food category")
	}
}

func TestClient_Validate_Names(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, extractResponse("Boris: A male given name of Slavic origin."))
	}))

	result, err := client.Validate(context.Background(), "Boris", CategoryNames)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Error("given name extract must validate for names category")
	}
}

func TestClient_Validate_MissingPage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":{"pages":{"-1":{"missing":""}}}}`)
	}))

	result, err := client.Validate(context.Background(), "zzxqy", "animals")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if result.IsValid {
		t.Error("missing page must be invalid")
	}
}

func TestClient_Validate_CachesResult(t *testing.T) {
	var calls atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, extractResponse("A species of bird."))
	}))

	ctx := context.Background()
	for range 3 {
		if _, err := client.Validate(ctx, "  Robin ", "animals"); err != nil {
			t.Fatalf("Validate() unexpected error: %v", err)
		}
	}
	// 대소문자와 공백이 달라도 같은 캐시 키로 합쳐져야 한다
	if _, err := client.Validate(ctx, "ROBIN", "animals"); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly one remote call, got %d", got)
	}
}

func TestClient_Validate_APIErrorFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	result, err := client.Validate(context.Background(), "Badger", "animals")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Error("reasonable word must pass the lenient fallback on API error")
	}

	result, err = client.Validate(context.Background(), "x", "animals")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if result.IsValid {
		t.Error("single letter must fail the lenient fallback")
	}
}

func TestClient_Validate_EmptyWord(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty word must not reach the remote API")
	}))

	result, err := client.Validate(context.Background(), "   ", "animals")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if result.IsValid {
		t.Error("empty word must be invalid")
	}
}

func TestIsReasonableWord(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"badger", true},
		{"new york", true},
		{"o'brien", true},
		{"jean-luc", true},
		{"x", false},
		{"double  space", false},
		{"number9", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsReasonableWord(tt.word); got != tt.want {
			t.Errorf("IsReasonableWord(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
