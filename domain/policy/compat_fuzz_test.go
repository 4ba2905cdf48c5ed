package policy_test

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/reglet-dev/reglet-modhost/domain/policy"
)

func FuzzCheck(f *testing.F) {
	host := entities.Info{Width: 8, Major: 1, Minor: 2}
	gate := policy.NewCompatibility(host)
	f.Add(0)
	f.Add(8)
	f.Add(entities.PackInfo(8, 1, 2))
	f.Add(entities.PackInfo(4, 1, 0))
	f.Add(-1)

	f.Fuzz(func(t *testing.T, info int) {
		err := gate.Check("fuzz", info)
		lib := entities.ParseInfo(info)
		if lib.Width != 0 && lib.Width != host.Width && err == nil {
			t.Fatalf("width %d accepted by host width %d", lib.Width, host.Width)
		}
		if entities.HasVersion(info) && lib.Minor > host.Minor && err == nil {
			t.Fatalf("minor %d accepted by host minor %d", lib.Minor, host.Minor)
		}
	})
}
