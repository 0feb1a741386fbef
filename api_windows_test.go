//go:build windows

package hashresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hrerrors "github.com/carved4/go-hashresolve/pkg/errors"
)

func TestCallResolvedFunction(t *testing.T) {
	pid, err := Call("kernel32.dll", "GetCurrentProcessId")
	require.NoError(t, err)
	assert.NotZero(t, pid)
}

func TestCallLoadsUnloadedModule(t *testing.T) {
	// winmm is not loaded by default; Call must fall back to the loader.
	ticks, err := Call("winmm.dll", "timeGetTime")
	require.NoError(t, err)
	assert.NotZero(t, ticks)
}

func TestCallUnknownModule(t *testing.T) {
	_, err := Call("definitely_not_a_module_xyz.dll", "Whatever")
	require.Error(t, err)
	assert.True(t, hrerrors.IsCode(err, hrerrors.ErrModuleNotFound))
}

func TestCallUnknownFunction(t *testing.T) {
	_, err := Call("kernel32.dll", "definitely_not_an_export_xyz")
	require.Error(t, err)
	assert.True(t, hrerrors.IsCode(err, hrerrors.ErrFunctionNotFound))
}

func TestCallAddrZeroSentinel(t *testing.T) {
	_, err := CallAddr(0)
	assert.True(t, hrerrors.IsCode(err, hrerrors.ErrFunctionNotFound))
}

func TestResolveFacade(t *testing.T) {
	addr := Resolve(GetHash("GetCurrentProcessId"), GetModuleHash("kernel32.dll"))
	require.NotZero(t, addr)

	pid, err := CallAddr(addr)
	require.NoError(t, err)
	assert.NotZero(t, pid)
}
