package plugins

//idlint:resolve id PluginId
//idlint:resolve version PluginVersion
func Describe(id, version string) {} // want Describe:"id=PluginId version=PluginVersion"

//idlint:resolve perm PermissionId
//idlint:resolve other Unknown
func Require(perm, other string) {} // want Require:"other=Unknown perm=PermissionId"

type Registry interface {
	//idlint:resolve name CommandName
	Command(name string) // want Command:"name=CommandName"
}

type Info struct {
	ID   string `idlint:"PluginId"`
	Name string `idlint:"PluginName"`
}

func init() {
	Describe("plugin", "1.0.0") // want `PLG1002: reserved word "plugin" not allowed as plugin id`
	Describe("net.example.demo", "1.0.0-beta.1")
	Require("ns:name", "anything")
}
