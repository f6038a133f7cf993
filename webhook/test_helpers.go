package webhook

import "github.com/stretchr/testify/mock"

// MatchWebHook creates a custom matcher for delivery arguments in mocks
func MatchWebHook(matcher func(*WebHook) bool) interface{} {
	return mock.MatchedBy(matcher)
}
