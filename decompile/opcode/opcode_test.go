package opcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromByteToByteRoundTrip(t *testing.T) {
	cases := []struct {
		desc string
		b    byte
		want Opcode
	}{
		{desc: "PUSHINT8", b: 0x00, want: PUSHINT8},
		{desc: "ADD", b: 0x9E, want: ADD},
		{desc: "CONVERT", b: 0xDB, want: CONVERT},
		{desc: "RET", b: 0x40, want: RET},
		{desc: "SYSCALL", b: 0x41, want: SYSCALL},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			op, ok := FromByte(c.b)
			require.True(t, ok)
			require.Equal(t, c.want, op)
			require.Equal(t, c.b, op.ToByte())
		})
	}
}

func TestFromByteUnknown(t *testing.T) {
	cases := []byte{0x07, 0x42, 0x44, 0x94, 0xB6, 0xB7, 0xB8, 0xBB, 0xDA, 0xFF}
	for _, b := range cases {
		_, ok := FromByte(b)
		require.False(t, ok, "byte 0x%02X should not decode to a named opcode", b)
	}
}

func TestPredicates(t *testing.T) {
	require.True(t, JMP.IsJump())
	require.True(t, JMP.IsTerminator())
	require.False(t, ADD.IsJump())

	require.True(t, CALL.IsCall())
	require.True(t, CALLA.IsCall())
	require.True(t, SYSCALL.IsCall())
	require.False(t, ADD.IsCall())

	require.True(t, RET.IsTerminator())
	require.True(t, ABORT.IsTerminator())
	require.True(t, THROW.IsTerminator())
	require.False(t, NOP.IsTerminator())
}

func TestLongForm(t *testing.T) {
	cases := []struct {
		short, long Opcode
	}{
		{JMP, JMP_L}, {JMPIF, JMPIF_L}, {JMPIFNOT, JMPIFNOT_L},
		{JMPEQ, JMPEQ_L}, {JMPNE, JMPNE_L}, {JMPGT, JMPGT_L},
		{JMPGE, JMPGE_L}, {JMPLT, JMPLT_L}, {JMPLE, JMPLE_L},
		{CALL, CALL_L}, {TRY, TRY_L}, {ENDTRY, ENDTRY_L},
	}
	require.Len(t, cases, 12)
	for _, c := range cases {
		require.True(t, c.short.HasLongForm())
		require.Equal(t, c.long, c.short.ToLongForm())
		require.True(t, c.long.IsLongForm())
	}
	require.False(t, ADD.HasLongForm())
	require.Equal(t, ADD, ADD.ToLongForm())
}

func TestStringFallback(t *testing.T) {
	require.Equal(t, "ADD", ADD.String())
	unknown := Opcode(0xFF)
	require.Equal(t, "UNKNOWN(0xFF)", unknown.String())
}
