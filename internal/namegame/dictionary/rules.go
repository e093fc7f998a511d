package dictionary

import (
	_ "embed" // 판정 규칙 임베드용
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// ruleSet: 임베드된 카테고리 판정 규칙
type ruleSet struct {
	Names      []string            `yaml:"names"`
	Categories map[string][]string `yaml:"categories"`
}

func loadRules() (*ruleSet, error) {
	var rules ruleSet
	if err := yaml.Unmarshal(rulesYAML, &rules); err != nil {
		return nil, fmt.Errorf("parse dictionary rules failed: %w", err)
	}
	if len(rules.Names) == 0 {
		return nil, fmt.Errorf("dictionary rules missing names keywords")
	}
	return &rules, nil
}

// matchExtract: 소문자화된 추출문이 카테고리 규칙을 만족하는지 판정한다.
// 규칙이 없는 카테고리는 단어가 사전에 존재하는 것만으로 유효 처리한다.
func (r *ruleSet) matchExtract(extract, category string) bool {
	keywords := r.Categories[category]
	if category == CategoryNames {
		keywords = r.Names
	}
	if len(keywords) == 0 {
		return true
	}
	for _, keyword := range keywords {
		if strings.Contains(extract, keyword) {
			return true
		}
	}
	return false
}
