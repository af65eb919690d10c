package diag

import (
	"fmt"
	"sort"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Plugin descriptor values
	PluginIDBlank        Code = 1001
	PluginIDReserved     Code = 1002
	PluginIDNoSeparator  Code = 1003
	PluginIDPattern      Code = 1004
	PluginNameBlank      Code = 1101
	PluginNameReserved   Code = 1102
	PluginVersionInvalid Code = 1201

	// Command names
	CommandNameBlank      Code = 2001
	CommandNameWhitespace Code = 2002
	CommandNameColon      Code = 2003
	CommandNameDot        Code = 2004

	// Permissions
	PermNamespaceBlank      Code = 3001
	PermNamespaceWhitespace Code = 3002
	PermNamespaceColon      Code = 3003
	PermNameBlank           Code = 3101
	PermNameWhitespace      Code = 3102
	PermNameColon           Code = 3103
	PermIDBlank             Code = 3201
	PermIDWhitespace        Code = 3202
	PermIDSeparator         Code = 3203

	// Loading
	IOLoadPackageError Code = 4001
	IOTypeErrors       Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		PluginIDBlank:           "plugin id must not be blank",
		PluginIDReserved:        "reserved word used as plugin id",
		PluginIDNoSeparator:     "plugin id lacks a group segment",
		PluginIDPattern:         "plugin id does not match the required pattern",
		PluginNameBlank:         "plugin name must not be blank",
		PluginNameReserved:      "reserved word used as plugin name",
		PluginVersionInvalid:    "invalid plugin version string",
		CommandNameBlank:        "command name must not be blank",
		CommandNameWhitespace:   "whitespace in command name",
		CommandNameColon:        "':' in command name",
		CommandNameDot:          "'.' in command name",
		PermNamespaceBlank:      "permission namespace must not be blank",
		PermNamespaceWhitespace: "whitespace in permission namespace",
		PermNamespaceColon:      "':' in permission namespace",
		PermNameBlank:           "permission name must not be blank",
		PermNameWhitespace:      "whitespace in permission name",
		PermNameColon:           "':' in permission name",
		PermIDBlank:             "permission id must not be blank",
		PermIDWhitespace:        "whitespace in permission id",
		PermIDSeparator:         "permission id must have the form namespace:name",
		IOLoadPackageError:      "package could not be loaded",
		IOTypeErrors:            "package has type errors; analysis is best effort",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PLG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CMD%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode resolves a code by its ID (e.g. "PLG1001").
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c == UnknownCode {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
