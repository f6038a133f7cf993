package history

import "github.com/stretchr/testify/mock"

// MatchItem creates a custom matcher for history item arguments in mocks
func MatchItem(matcher func(Item) bool) interface{} {
	return mock.MatchedBy(matcher)
}
