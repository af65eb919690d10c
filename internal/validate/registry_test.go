package validate

import (
	"testing"

	"idlint/internal/diag"
	"idlint/internal/semantic"
)

func TestRegistryCoverage(t *testing.T) {
	for _, tag := range semantic.All() {
		_, ok := Default.ValidatorFor(tag)
		want := tag != semantic.RestrictedNoArgConstructor
		if ok != want {
			t.Errorf("ValidatorFor(%s) = %v, want %v", tag, ok, want)
		}
	}
	if _, ok := Default.ValidatorFor(semantic.Tag(200)); ok {
		t.Error("out of range tag must have no validator")
	}
	var nilReg *Registry
	if _, ok := nilReg.ValidatorFor(semantic.PluginID); ok {
		t.Error("nil registry must have no validators")
	}
}

func TestIndependentForbiddenTables(t *testing.T) {
	reg := NewRegistry(Options{
		ForbiddenPluginIDs:   []string{"internal"},
		ForbiddenPluginNames: []string{"Core"},
	})
	id, _ := reg.ValidatorFor(semantic.PluginID)
	name, _ := reg.ValidatorFor(semantic.PluginName)

	if d, ok := id(anchor, "INTERNAL"); !ok || d.Code != diag.PluginIDReserved {
		t.Errorf("plugin id table not applied: %v %v", d, ok)
	}
	// "plugin" is no longer reserved for ids, but still has no dot
	if d, ok := id(anchor, "plugin"); !ok || d.Code != diag.PluginIDNoSeparator {
		t.Errorf("default table should be replaced: %v %v", d.Code.ID(), ok)
	}
	if d, ok := name(anchor, "core"); !ok || d.Code != diag.PluginNameReserved {
		t.Errorf("plugin name table not applied: %v %v", d, ok)
	}
	if _, ok := name(anchor, "internal"); ok {
		t.Error("plugin id table leaked into plugin names")
	}
}

func TestDisabledAndSeverity(t *testing.T) {
	reg := NewRegistry(Options{
		Disabled: []semantic.Tag{semantic.CommandName},
		Severity: map[semantic.Tag]diag.Severity{
			semantic.PermissionID:               diag.SevWarning,
			semantic.CommandName:                diag.SevInfo,
			semantic.RestrictedNoArgConstructor: diag.SevInfo,
		},
	})
	if _, ok := reg.ValidatorFor(semantic.CommandName); ok {
		t.Error("disabled tag still has a validator")
	}
	if _, ok := reg.ValidatorFor(semantic.RestrictedNoArgConstructor); ok {
		t.Error("severity override must not create a validator")
	}
	f, _ := reg.ValidatorFor(semantic.PermissionID)
	if d, ok := f(anchor, "x"); !ok || d.Severity != diag.SevWarning {
		t.Errorf("severity override not applied: %v", d.Severity)
	}
	if _, ok := f(anchor, "ns:x"); ok {
		t.Error("override must keep valid values valid")
	}
}
