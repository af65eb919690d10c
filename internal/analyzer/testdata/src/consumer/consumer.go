package consumer

import "plugins"

const id = "nodots"

var info = plugins.Info{ID: "a.b", Name: "console"} // want `PLG1102: reserved word "console" not allowed as plugin name`

func Setup(r plugins.Registry) {
	plugins.Describe(id, "1.0")      // want `PLG1003: plugin id "nodots" must contain a group segment` `PLG1201: invalid version string "1.0"`
	r.Command("a b")                 // want `CMD2002: whitespace not allowed in command name "a b"`
	plugins.Require("ns:sub:name", "") // want `PRM3203: permission id "ns:sub:name" must have the form namespace:name`
	plugins.Describe("a..b", "1.0.0") //idlint:ignore

	var dynamic string
	plugins.Require(dynamic, "")
}
