package orgchart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-officeops/internal/orgchart"
)

func TestBuildChain(t *testing.T) {
	t.Run("success manager ladder lalu admin", func(t *testing.T) {
		chain := orgchart.BuildChain(
			[]string{"mgr-1", "mgr-2"},
			[]string{"admin-1"},
			"emp-1",
		)

		assert.Equal(t, []string{"mgr-1", "mgr-2", "admin-1"}, chain)
	})

	t.Run("success dedup admin yang juga manager", func(t *testing.T) {
		chain := orgchart.BuildChain(
			[]string{"mgr-1"},
			[]string{"mgr-1", "admin-1"},
			"emp-1",
		)

		assert.Equal(t, []string{"mgr-1", "admin-1"}, chain)
	})

	t.Run("success requester tidak masuk chain", func(t *testing.T) {
		chain := orgchart.BuildChain(
			[]string{"emp-1", "mgr-1"},
			[]string{"emp-1"},
			"emp-1",
		)

		assert.Equal(t, []string{"mgr-1"}, chain)
	})

	t.Run("negative tanpa manager dan tanpa admin", func(t *testing.T) {
		chain := orgchart.BuildChain(nil, nil, "emp-1")

		assert.Empty(t, chain)
	})
}
