// Package similarity 通过词重叠率判断两个问题是否“足够相似”。
package similarity

import "strings"

// DefaultThreshold 是默认的相似度阈值，重叠率必须严格大于它才算命中。
const DefaultThreshold = 0.8

// Matcher 在候选 key 中查找与问题相似的第一个 key。
type Matcher struct {
	threshold float64
}

// NewMatcher 创建一个 Matcher；threshold <= 0 时使用 DefaultThreshold。
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold 返回当前阈值。
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// FindSimilar 按 keys 的顺序扫描，返回第一个重叠率严格大于阈值的 key。
// 找到即返回，不做最优匹配搜索。
func (m *Matcher) FindSimilar(query string, keys []string) (string, bool) {
	q := words(query)
	for _, key := range keys {
		if overlap(q, words(key)) > m.threshold {
			return key, true
		}
	}
	return "", false
}

// Overlap 计算 |A ∩ B| / max(|A|, |B|)，A、B 为小写化后按空白切分的去重词集。
// 两边都为空时返回 0。
func Overlap(a, b string) float64 {
	return overlap(words(a), words(b))
}

func overlap(a, b map[string]struct{}) float64 {
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	if denom == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(denom)
}

func words(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
