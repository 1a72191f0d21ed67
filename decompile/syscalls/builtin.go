package syscalls

// builtinSyscalls is the Neo N3 syscall table, ported from
// load_builtin_syscalls with every name, hash, parameter list, return
// type, effect tag list and gas cost preserved exactly for
// interoperability with anything else that decodes the same contracts.
//
// Supplemented beyond the original table: System.Runtime.CheckWitness
// (0xf6b9eff6 — 0xf827ec8e is already System.Runtime.GetTime),
// System.Runtime.Notify (0x95016244) and System.Runtime.Log
// (0xec6878b2), all three commonly emitted by the Neo C# compiler and
// exercised by real contracts even though the base table omits them.
var builtinSyscalls = []Definition{
	// Runtime syscalls
	{
		Name: "System.Runtime.Platform", Hash: 0x49de7d57,
		Parameters: nil, ReturnType: "String",
		Effects: []SideEffect{StateChange}, GasCost: 250, HasGasCost: true,
		Description: "Gets the name of the current platform",
	},
	{
		Name: "System.Runtime.GetTrigger", Hash: 0x2d43a8aa,
		Parameters: nil, ReturnType: "Byte",
		Effects: []SideEffect{StateChange}, GasCost: 250, HasGasCost: true,
		Description: "Gets the trigger type of the current execution",
	},
	{
		Name: "System.Runtime.GetTime", Hash: 0xf827ec8e,
		Parameters: nil, ReturnType: "UInteger",
		Effects: []SideEffect{StateChange}, GasCost: 250, HasGasCost: true,
		Description: "Gets the timestamp of the current block",
	},
	{
		Name: "System.Runtime.GetExecutingScriptHash", Hash: 0x5d97c1b2,
		Parameters: nil, ReturnType: "Hash160",
		Effects: []SideEffect{Pure}, GasCost: 400, HasGasCost: true,
		Description: "Gets the script hash of the current contract",
	},
	{
		Name: "System.Runtime.GetCallingScriptHash", Hash: 0x91f9b23b,
		Parameters: nil, ReturnType: "Hash160",
		Effects: []SideEffect{Pure}, GasCost: 400, HasGasCost: true,
		Description: "Gets the script hash of the calling contract",
	},
	{
		Name: "System.Runtime.GetEntryScriptHash", Hash: 0x9e29b9a8,
		Parameters: nil, ReturnType: "Hash160",
		Effects: []SideEffect{Pure}, GasCost: 400, HasGasCost: true,
		Description: "Gets the script hash of the entry contract",
	},
	{
		Name: "System.Runtime.CheckWitness", Hash: 0xf6b9eff6,
		Parameters: []string{"ByteArray"}, ReturnType: "Boolean",
		Effects: []SideEffect{StateChange}, GasCost: 1000000, HasGasCost: true,
		Description: "Checks whether the given account has witnessed the transaction",
	},
	{
		Name: "System.Runtime.Notify", Hash: 0x95016244,
		Parameters: []string{"String", "Array"}, ReturnType: "Void",
		Effects: []SideEffect{EventEmit}, GasCost: 0, HasGasCost: true,
		Description: "Notifies a runtime event with the given name and state",
	},
	{
		Name: "System.Runtime.Log", Hash: 0xec6878b2,
		Parameters: []string{"String"}, ReturnType: "Void",
		Effects: []SideEffect{EventEmit}, GasCost: 0, HasGasCost: true,
		Description: "Writes a log message to the runtime log",
	},

	// Storage syscalls
	{
		Name: "System.Storage.GetContext", Hash: 0x9c7c9598,
		Parameters: nil, ReturnType: "StorageContext",
		Effects: []SideEffect{Pure}, GasCost: 400, HasGasCost: true,
		Description: "Gets the storage context of the current contract",
	},
	{
		Name: "System.Storage.GetReadOnlyContext", Hash: 0xe1c83c39,
		Parameters: nil, ReturnType: "StorageContext",
		Effects: []SideEffect{Pure}, GasCost: 400, HasGasCost: true,
		Description: "Gets the read-only storage context of the current contract",
	},
	{
		Name: "System.Storage.Get", Hash: 0x925de831,
		Parameters: []string{"StorageContext", "ByteArray"}, ReturnType: "ByteArray",
		Effects: []SideEffect{StorageRead}, GasCost: 1000000, HasGasCost: true,
		Description: "Gets a value from storage",
	},
	{
		Name: "System.Storage.Put", Hash: 0xe63f1884,
		Parameters: []string{"StorageContext", "ByteArray", "ByteArray"}, ReturnType: "Void",
		Effects: []SideEffect{StorageWrite}, GasCost: 0, HasGasCost: true,
		Description: "Puts a value into storage",
	},
	{
		Name: "System.Storage.Delete", Hash: 0x7ce2e494,
		Parameters: []string{"StorageContext", "ByteArray"}, ReturnType: "Void",
		Effects: []SideEffect{StorageWrite}, GasCost: 1000000, HasGasCost: true,
		Description: "Deletes a value from storage",
	},
	{
		Name: "System.Storage.Find", Hash: 0xa09b1eef,
		Parameters: []string{"StorageContext", "ByteArray", "Byte"}, ReturnType: "Iterator",
		Effects: []SideEffect{StorageRead}, GasCost: 1000000, HasGasCost: true,
		Description: "Finds storage entries with the given prefix",
	},

	// Contract syscalls
	{
		Name: "System.Contract.Call", Hash: 0x627d5b52,
		Parameters: []string{"Hash160", "String", "Array", "CallFlags"}, ReturnType: "Any",
		Effects: []SideEffect{ContractCall}, GasCost: 0, HasGasCost: true,
		Description: "Calls another contract",
	},
	{
		Name: "System.Contract.CallEx", Hash: 0x14e12327,
		Parameters: []string{"Hash160", "String", "Array", "CallFlags"}, ReturnType: "Any",
		Effects: []SideEffect{ContractCall}, GasCost: 0, HasGasCost: true,
		Description: "Calls another contract with extended functionality",
	},

	// Crypto syscalls
	{
		Name: "System.Crypto.CheckSig", Hash: 0x82958f5a,
		Parameters: []string{"ByteArray", "ECPoint"}, ReturnType: "Boolean",
		Effects: []SideEffect{Pure}, GasCost: 1000000, HasGasCost: true,
		Description: "Verifies a signature",
	},
	{
		Name: "System.Crypto.CheckMultisig", Hash: 0xf60652e8,
		Parameters: []string{"Array", "Array"}, ReturnType: "Boolean",
		Effects: []SideEffect{Pure}, GasCost: 0, HasGasCost: true,
		Description: "Verifies multiple signatures",
	},

	// Iterator syscalls
	{
		Name: "System.Iterator.Next", Hash: 0x7e6a2bb7,
		Parameters: []string{"Iterator"}, ReturnType: "Boolean",
		Effects: []SideEffect{Pure}, GasCost: 1000000, HasGasCost: true,
		Description: "Moves to the next item in an iterator",
	},
	{
		Name: "System.Iterator.Value", Hash: 0x63b6c5ee,
		Parameters: []string{"Iterator"}, ReturnType: "Array",
		Effects: []SideEffect{Pure}, GasCost: 400, HasGasCost: true,
		Description: "Gets the current value from an iterator",
	},

	// JSON syscalls
	{
		Name: "System.Json.Serialize", Hash: 0xa0ab5461,
		Parameters: []string{"Any"}, ReturnType: "ByteArray",
		Effects: []SideEffect{Pure}, GasCost: 100000, HasGasCost: true,
		Description: "Serializes an object to JSON",
	},
	{
		Name: "System.Json.Deserialize", Hash: 0x7d4b2a25,
		Parameters: []string{"ByteArray"}, ReturnType: "Any",
		Effects: []SideEffect{Pure}, GasCost: 500000, HasGasCost: true,
		Description: "Deserializes JSON to an object",
	},
}
