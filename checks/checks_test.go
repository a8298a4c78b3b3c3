package checks

import (
	"strings"
	"testing"

	"github.com/redhat/upgrade-checks/test/framework"
	"github.com/redhat/upgrade-checks/test/framework/version"
)

func TestAll_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range All(version.MustParse("0.50.0")) {
		if seen[c.Name()] {
			t.Errorf("duplicate check name %q", c.Name())
		}
		seen[c.Name()] = true
	}
}

func TestAll_LifecycleShape(t *testing.T) {
	for _, c := range All(version.MustParse("0.80.0")) {
		init := c.Initialize()
		if init.Empty() {
			t.Errorf("check %s: initialize batch is empty", c.Name())
		}
		if c.Validate().Empty() {
			t.Errorf("check %s: validate batch is empty", c.Name())
		}
		for i, batch := range c.Manipulate() {
			if batch.Empty() {
				t.Errorf("check %s: manipulate batch %d is empty", c.Name(), i)
			}
		}
		// Batches must carry a label for error attribution.
		if init.Label == "" || !strings.HasPrefix(init.Label, c.Name()) {
			t.Errorf("check %s: initialize label %q should carry the check name", c.Name(), init.Label)
		}
	}
}

func TestUnmanagedReplica_VersionGate(t *testing.T) {
	c := &UnmanagedReplica{}
	old := version.MustParse("0.60.0")
	recent := version.MustParse("0.70.0")

	if c.CanRun(old, recent) {
		t.Error("check must decline bases before the setting existed")
	}
	if !c.CanRun(recent, recent) {
		t.Error("check must run on recent bases")
	}
	// The gate is decided by the base version, not the current one.
	if !c.CanRun(version.MustParse("0.68.0-dev"), version.MustParse("0.68.0-dev")) {
		t.Error("a dev build of the introducing version is already eligible")
	}
}

func TestUnmanagedReplica_RequestsSettings(t *testing.T) {
	var c framework.Check = &UnmanagedReplica{}
	r, ok := c.(framework.SettingsRequester)
	if !ok {
		t.Fatal("UnmanagedReplica should request settings")
	}
	if len(r.RequiredSettings()) == 0 {
		t.Error("expected at least one required setting")
	}
}

func TestRenameTable_NotIdempotent(t *testing.T) {
	c := NewRenameTable(framework.CheckBase{BaseVersion: version.MustParse("0.50.0")})
	if c.ExternallyIdempotent() {
		t.Error("renames do not survive a setup re-run")
	}
}

func TestExpectHelpers(t *testing.T) {
	got := expectQueryEquals("SELECT COUNT(*) FROM t", "3")
	want := "SELECT 1 / CASE WHEN ((SELECT COUNT(*) FROM t) = 3) THEN 1 ELSE 0 END"
	if got != want {
		t.Errorf("unexpected guard statement:\n got %s\nwant %s", got, want)
	}
}
