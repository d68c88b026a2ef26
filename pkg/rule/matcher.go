package rule

import "strings"

// indexAll 返回 sub 在 text 中全部出现位置（rune 下标，允许重叠）
func indexAll(text, sub []rune) []int {
	if len(sub) == 0 || len(sub) > len(text) {
		return nil
	}
	var positions []int
	for i := 0; i+len(sub) <= len(text); i++ {
		match := true
		for j := range sub {
			if text[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			positions = append(positions, i)
		}
	}
	return positions
}

// window 截取 [start-k, end+k) 范围内的上下文
func window(text []rune, start, end, k int) (lo, hi int) {
	lo = max(0, start-k)
	hi = min(len(text), end+k)
	return lo, hi
}

// excerpt 命中位置附近的片段，用于问题描述
func excerpt(text []rune, start, end, k int) string {
	lo, hi := window(text, start, end, k)
	return string(text[lo:hi])
}

// allowMode 豁免搭配的判定方式
type allowMode int

const (
	// allowNearby 窗口内出现任一豁免搭配即豁免，如「利益相反取引」中的「取引」
	allowNearby allowMode = iota
	// allowCovering 豁免搭配必须包含该词且在窗口内覆盖命中位置，如「かわいい」中的「わい」
	allowCovering
)

// contextMatcher 在命中位置 ±window 的范围内检查豁免搭配
type contextMatcher struct {
	window    int
	allowList []string
	mode      allowMode
}

// firstViolation 返回第一个未被豁免的出现位置
func (m contextMatcher) firstViolation(text []rune, term string) (start int, found bool) {
	t := []rune(term)
	for _, pos := range indexAll(text, t) {
		if !m.allowListed(text, pos, pos+len(t), term) {
			return pos, true
		}
	}
	return 0, false
}

func (m contextMatcher) allowListed(text []rune, start, end int, term string) bool {
	lo, hi := window(text, start, end, m.window)
	segment := text[lo:hi]
	for _, phrase := range m.allowList {
		if phrase == "" {
			continue
		}
		p := []rune(phrase)
		if m.mode == allowNearby {
			if len(indexAll(segment, p)) > 0 {
				return true
			}
			continue
		}
		if len(p) <= end-start || !strings.Contains(phrase, term) {
			continue
		}
		for _, i := range indexAll(segment, p) {
			ps, pe := lo+i, lo+i+len(p)
			if ps <= start && pe >= end {
				return true
			}
		}
	}
	return false
}
