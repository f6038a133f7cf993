package settings

import "github.com/stretchr/testify/mock"

// MatchResolved creates a mock matcher for resolved configs
func MatchResolved(matcher func(Resolved) bool) interface{} {
	return mock.MatchedBy(matcher)
}
