package nexus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslink/nexuslink/component"
	"github.com/nexuslink/nexuslink/registry"
	"github.com/nexuslink/nexuslink/resolver"
)

func TestLoadExportsThenResolve(t *testing.T) {
	app := component.New("app", "1.0.0", "")
	lib := component.New("lib", "1.0.0", "math component")
	lib.AddExport("calculate", "", registry.KindFunction)
	app.AddDependency("lib", "^1.0.0", false)

	available := component.ByID{"app": app, "lib": lib}
	sys, err := New("app", available, nil)
	require.NoError(t, err)

	sys.LoadExports(available)

	sym, err := sys.Resolve("calculate", "app", resolver.Options{})
	require.NoError(t, err)
	assert.Equal(t, "lib", sym.ComponentID)
	assert.Equal(t, "1.0.0", sym.Version)
}

func TestNewFailsOnUnknownRoot(t *testing.T) {
	_, err := New("missing", component.ByID{}, nil)
	require.Error(t, err)
}
