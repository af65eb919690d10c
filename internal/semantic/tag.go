// Package semantic holds the closed catalog of identifier categories that a
// parameter can be tagged with.
package semantic

// Tag is a semantic category attached to a parameter or struct field.
type Tag uint8

const (
	PluginID Tag = iota
	PluginName
	PluginVersion
	CommandName
	PermissionNamespace
	PermissionName
	PermissionID
	// RestrictedNoArgConstructor marks types that must keep a no-arg
	// constructor. It is recognised but has no string validator.
	RestrictedNoArgConstructor

	// NumTags is the number of tags; usable as an array length.
	NumTags = int(RestrictedNoArgConstructor) + 1
)

var tagNames = [NumTags]string{
	PluginID:                   "PluginId",
	PluginName:                 "PluginName",
	PluginVersion:              "PluginVersion",
	CommandName:                "CommandName",
	PermissionNamespace:        "PermissionNamespace",
	PermissionName:             "PermissionName",
	PermissionID:               "PermissionId",
	RestrictedNoArgConstructor: "RestrictedNoArgConstructor",
}

var tagAliases = [NumTags]string{
	PluginID:                   "PLUGIN_ID",
	PluginName:                 "PLUGIN_NAME",
	PluginVersion:              "PLUGIN_VERSION",
	CommandName:                "COMMAND_NAME",
	PermissionNamespace:        "PERMISSION_NAMESPACE",
	PermissionName:             "PERMISSION_NAME",
	PermissionID:               "PERMISSION_ID",
	RestrictedNoArgConstructor: "RESTRICTED_NO_ARG_CONSTRUCTOR",
}

var byName = func() map[string]Tag {
	m := make(map[string]Tag, 2*NumTags)
	for i := range NumTags {
		m[tagNames[i]] = Tag(i)
		m[tagAliases[i]] = Tag(i)
	}
	return m
}()

// Parse resolves a metadata name to a Tag. Unknown names report false: the
// metadata may come from a newer or older tagging scheme and is skipped.
func Parse(name string) (Tag, bool) {
	t, ok := byName[name]
	return t, ok
}

// String returns the canonical name of the tag.
func (t Tag) String() string {
	if int(t) < NumTags {
		return tagNames[t]
	}
	return "unknown"
}

// Valid reports whether t is one of the catalog values.
func (t Tag) Valid() bool {
	return int(t) < NumTags
}

// All returns every tag in declaration order.
func All() []Tag {
	out := make([]Tag, NumTags)
	for i := range out {
		out[i] = Tag(i)
	}
	return out
}
