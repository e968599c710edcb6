package access

import "github.com/mrrabbitte/pooly/internal/domain/versioning"

// SetCommandType discriminates how a SetCommand mutates a target set.
type SetCommandType int

const (
	Add SetCommandType = iota
	Remove
	Replace
)

// SetCommand mutates a set<T> entry (connection-id literals or wildcard
// patterns) by addition, removal, or wholesale replacement.
type SetCommand[T comparable] struct {
	CmdType  SetCommandType           `msgpack:"cmd_type" json:"cmd_type"`
	HeaderV  versioning.VersionHeader `msgpack:"header" json:"header" validate:"required"`
	Elements map[T]struct{}          `msgpack:"elements" json:"elements"`
}

// Header implements versioning.UpdateCommand.
func (c SetCommand[T]) Header() versioning.VersionHeader {
	return c.HeaderV
}

// Apply returns the set resulting from applying the command to target:
// target ∪ elements (Add), target \ elements (Remove), or elements
// (Replace). target is never mutated.
func (c SetCommand[T]) Apply(target map[T]struct{}) map[T]struct{} {
	switch c.CmdType {
	case Add:
		result := make(map[T]struct{}, len(target)+len(c.Elements))
		for k := range target {
			result[k] = struct{}{}
		}

		for k := range c.Elements {
			result[k] = struct{}{}
		}

		return result
	case Remove:
		result := make(map[T]struct{}, len(target))
		for k := range target {
			if _, excluded := c.Elements[k]; !excluded {
				result[k] = struct{}{}
			}
		}

		return result
	case Replace:
		result := make(map[T]struct{}, len(c.Elements))
		for k := range c.Elements {
			result[k] = struct{}{}
		}

		return result
	default:
		return target
	}
}
