package parser

import (
	"fmt"
	"strings"

	"pbnj/internal/model"
)

// SplitQueries splits raw M code into let-delimited blocks. This is a
// lexical heuristic, not a grammar: a "let" inside a string literal,
// comment, or identifier also splits. Downstream rendering depends on this
// exact segmentation, so don't make it smarter without changing both sides.
func SplitQueries(raw string) []model.Query {
	sections := strings.Split(raw, "let")

	var queries []model.Query
	// 첫 구간은 let 이전의 프롤로그이므로 버린다
	for i, section := range sections[1:] {
		code := "let" + section
		queries = append(queries, model.Query{
			Name:  fmt.Sprintf("Query_%d", i+1),
			Code:  code,
			Steps: ExtractSteps(code),
		})
	}
	return queries
}

// ExtractSteps collects the assignment-looking lines of one query block:
// trimmed, containing '=', not starting with //. A step wrapped across
// physical lines comes back as multiple entries.
func ExtractSteps(code string) []string {
	steps := []string{}
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") && !strings.HasPrefix(line, "//") {
			steps = append(steps, line)
		}
	}
	return steps
}
