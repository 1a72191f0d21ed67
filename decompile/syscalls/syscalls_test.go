package syscalls_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/neodec/decompile/syscalls"
	"github.com/mna/neodec/decompile/types"
)

func TestDatabaseResolvesKnownSyscalls(t *testing.T) {
	db := syscalls.New()

	require.Equal(t, "System.Storage.Get", db.NameByHash(0x925de831))
	require.Equal(t, "System.Storage.Put", db.NameByHash(0xe63f1884))

	require.Equal(t, 2, db.ArgCount(0x925de831))
	require.Equal(t, 3, db.ArgCount(0xe63f1884))

	require.True(t, db.ReturnsValue(0x925de831))
	require.False(t, db.ReturnsValue(0xe63f1884))
}

func TestDatabaseTypeSignatures(t *testing.T) {
	db := syscalls.New()

	sig, ok := db.Signature(0x925de831)
	require.True(t, ok)
	require.Equal(t, "System.Storage.Get", sig.Name)
	require.Len(t, sig.Parameters, 2)
	require.NotNil(t, sig.ReturnType)
	require.Contains(t, sig.Effects, syscalls.StorageRead)
}

func TestDatabaseUnknownHashFallsBackToSyntheticName(t *testing.T) {
	db := syscalls.New()

	require.Equal(t, "syscall_deadbeef", db.NameByHash(0xdeadbeef))
	require.Equal(t, 0, db.ArgCount(0xdeadbeef))
	require.False(t, db.ReturnsValue(0xdeadbeef))
	require.Nil(t, db.Effects(0xdeadbeef))
}

func TestDatabaseByNameMatchesByHash(t *testing.T) {
	db := syscalls.New()

	byName, ok := db.ByName("System.Contract.Call")
	require.True(t, ok)
	byHash, ok := db.ByHash(0x627d5b52)
	require.True(t, ok)
	require.Equal(t, byHash, byName)
}

func TestAllHashesIsSortedAndComplete(t *testing.T) {
	db := syscalls.New()
	hashes := db.AllHashes()

	require.True(t, len(hashes) >= 22)
	for i := 1; i < len(hashes); i++ {
		require.Less(t, hashes[i-1], hashes[i])
	}
}

func TestSupplementedRuntimeLogAndNotify(t *testing.T) {
	db := syscalls.New()

	logDef, ok := db.ByName("System.Runtime.Log")
	require.True(t, ok)
	require.Equal(t, uint32(0xec6878b2), logDef.Hash)
	require.Contains(t, logDef.Effects, syscalls.EventEmit)

	notifyDef, ok := db.ByName("System.Runtime.Notify")
	require.True(t, ok)
	require.Equal(t, uint32(0x95016244), notifyDef.Hash)

	witnessDef, ok := db.ByName("System.Runtime.CheckWitness")
	require.True(t, ok)
	require.Equal(t, uint32(0xf6b9eff6), witnessDef.Hash)
}

func TestTypeStringParsingFollowsTheSyscallTable(t *testing.T) {
	db := syscalls.New()

	checkSig, ok := db.Signature(0x82958f5a) // System.Crypto.CheckSig
	require.True(t, ok)
	require.IsType(t, types.ByteArray{}, checkSig.Parameters[0])
	require.IsType(t, types.ECPoint{}, checkSig.Parameters[1])
	require.IsType(t, types.Boolean{}, checkSig.ReturnType)

	findSig, ok := db.Signature(0xa09b1eef) // System.Storage.Find
	require.True(t, ok)
	require.IsType(t, types.Unknown{}, findSig.ReturnType) // Iterator is opaque

	callSig, ok := db.Signature(0x627d5b52) // System.Contract.Call
	require.True(t, ok)
	require.IsType(t, types.Array{}, callSig.Parameters[2])
}

func TestAddRegistersConfigurationSuppliedSyscall(t *testing.T) {
	db := syscalls.New()
	db.Add(syscalls.Definition{
		Name:       "Custom.Thing.Do",
		Hash:       0x12345678,
		Parameters: []string{"Integer"},
		ReturnType: "Boolean",
		Effects:    []syscalls.SideEffect{syscalls.Pure},
	})

	def, ok := db.ByName("Custom.Thing.Do")
	require.True(t, ok)
	require.Equal(t, uint32(0x12345678), def.Hash)
	require.True(t, db.ReturnsValue(0x12345678))
}
