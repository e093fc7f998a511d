// Package dictionary 는 외부 단어 판정 능력을 제공한다.
// Wiktionary extracts API 조회 결과를 정규화된 (단어, 카테고리) 키로 캐시하며,
// 동일 키에 대한 동시 조회는 singleflight로 합쳐져 원격 호출이 한 번만 나간다.
package dictionary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/ast4/namegame-go/internal/common/cache"
	"github.com/ast4/namegame-go/internal/common/httpclient"
	ngconfig "github.com/ast4/namegame-go/internal/namegame/config"
	ngerrors "github.com/ast4/namegame-go/internal/namegame/errors"
)

// CategoryNames: 이름 카테고리 식별자. model.CategoryNames와 같은 값을 쓴다.
const CategoryNames = "names"

// Result: 단어 하나에 대한 판정 결과.
// FromCache는 이 판정이 원격 호출 없이 캐시에서 나왔는지 표시한다.
type Result struct {
	IsValid   bool   `json:"isValid"`
	Extract   string `json:"extract"`
	FromCache bool   `json:"-"`
}

// Client: 캐시를 갖춘 Wiktionary 판정 클라이언트
type Client struct {
	baseURL string
	http    *http.Client
	rules   *ruleSet
	cache   *cache.TTLLRUCache[Result]
	group   singleflight.Group
}

// NewClient: 판정 클라이언트를 생성한다.
func NewClient(cfg ngconfig.DictionaryConfig) (*Client, error) {
	rules, err := loadRules()
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "?&"),
		http: httpclient.New(httpclient.Config{
			Timeout:        cfg.Timeout,
			ConnectTimeout: cfg.Timeout,
		}),
		rules: rules,
		cache: cache.NewTTLLRUCache[Result](cfg.CacheMaxEntries, cfg.CacheTTL),
	}, nil
}

// Normalize: 캐시 키와 중복 판정에 쓰이는 표준형을 만든다.
func Normalize(word string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(word)))
}

var reasonableWordPattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

// IsReasonableWord: 원격 판정이 불가능할 때 쓰는 관대한 로컬 판정.
// 2~30자의 알파벳 단어(공백, 아포스트로피, 하이픈 허용)이며 이중 공백이 없어야 한다.
func IsReasonableWord(word string) bool {
	return len(word) >= 2 &&
		len(word) <= 30 &&
		reasonableWordPattern.MatchString(word) &&
		!strings.Contains(word, "  ")
}

// Validate: 단어가 카테고리에 속하는 실제 단어인지 판정한다.
// 같은 (단어, 카테고리) 쌍은 프로세스 수명 동안 최대 한 번만 원격 조회된다.
func (c *Client) Validate(ctx context.Context, word, category string) (Result, error) {
	normalized := Normalize(word)
	if normalized == "" {
		return Result{}, nil
	}

	cacheKey := normalized + "|" + category
	if cached, ok := c.cache.Get(cacheKey); ok {
		cached.FromCache = true
		return cached, nil
	}

	v, err, shared := c.group.Do(cacheKey, func() (any, error) {
		if cached, ok := c.cache.Get(cacheKey); ok {
			cached.FromCache = true
			return cached, nil
		}

		result, err := c.lookup(ctx, normalized, category)
		if err != nil {
			return Result{}, err
		}

		c.cache.Set(cacheKey, result)
		return result, nil
	})
	if err != nil {
		return Result{}, ngerrors.DictionaryError{Word: normalized, Err: err}
	}
	result := v.(Result)
	if shared {
		result.FromCache = true
	}
	return result, nil
}

// wiktionaryResponse: extracts API 응답에서 필요한 부분만 추린 구조
type wiktionaryResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) lookup(ctx context.Context, normalized, category string) (Result, error) {
	endpoint := fmt.Sprintf(
		"%s?action=query&format=json&prop=extracts&titles=%s",
		c.baseURL,
		url.QueryEscape(normalized),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build dictionary request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("dictionary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// API 장애 시에는 관대한 로컬 판정으로 대체한다
		return Result{IsValid: IsReasonableWord(normalized)}, nil
	}

	var payload wiktionaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("decode dictionary response: %w", err)
	}

	for pageID, page := range payload.Query.Pages {
		if pageID == "-1" || page.Extract == "" {
			continue
		}
		extract := strings.ToLower(page.Extract)
		return Result{
			IsValid: c.rules.matchExtract(extract, category),
			Extract: extract,
		}, nil
	}

	// 사전에 항목이 없는 단어
	return Result{}, nil
}
