package access

import "github.com/mrrabbitte/pooly/internal/domain/versioning"

// LiteralConnectionIdAccessEntry grants a client_id access to an explicit
// set of connection_ids, mutated by SetCommand<string>.
type LiteralConnectionIdAccessEntry struct {
	ClientID      string              `msgpack:"client_id" json:"client_id"`
	ConnectionIDs map[string]struct{} `msgpack:"connection_ids" json:"connection_ids"`
}

// ID implements versioning.Identifiable.
func (e LiteralConnectionIdAccessEntry) ID() string {
	return e.ClientID
}

// Accept implements versioning.Acceptor.
func (e LiteralConnectionIdAccessEntry) Accept(cmd SetCommand[string]) (LiteralConnectionIdAccessEntry, error) {
	return LiteralConnectionIdAccessEntry{
		ClientID:      e.ClientID,
		ConnectionIDs: cmd.Apply(e.ConnectionIDs),
	}, nil
}

// Contains reports whether connectionID is in the literal allowlist.
func (e LiteralConnectionIdAccessEntry) Contains(connectionID string) bool {
	_, ok := e.ConnectionIDs[connectionID]

	return ok
}

// WildcardPatternConnectionIdAccessEntry grants a client_id access to every
// connection_id matching any of a set of wildcard patterns, mutated by
// SetCommand<WildcardPattern>.
type WildcardPatternConnectionIdAccessEntry struct {
	ClientID string                       `msgpack:"client_id" json:"client_id"`
	Patterns map[WildcardPattern]struct{} `msgpack:"patterns" json:"patterns"`
}

// ID implements versioning.Identifiable.
func (e WildcardPatternConnectionIdAccessEntry) ID() string {
	return e.ClientID
}

// Accept implements versioning.Acceptor.
func (e WildcardPatternConnectionIdAccessEntry) Accept(
	cmd SetCommand[WildcardPattern],
) (WildcardPatternConnectionIdAccessEntry, error) {
	return WildcardPatternConnectionIdAccessEntry{
		ClientID: e.ClientID,
		Patterns: cmd.Apply(e.Patterns),
	}, nil
}

// MatchesAny reports whether any pattern in the set matches connectionID.
func (e WildcardPatternConnectionIdAccessEntry) MatchesAny(connectionID string) bool {
	for pattern := range e.Patterns {
		if pattern.Matches(connectionID) {
			return true
		}
	}

	return false
}
