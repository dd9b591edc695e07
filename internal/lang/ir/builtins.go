package ir

// Builtin names as they appear in Call.Name.
const (
	BuiltinPrint             = "print"
	BuiltinPrintln           = "println"
	BuiltinReadFile          = "read_file"
	BuiltinCallNative        = "call_native"
	BuiltinCompileIOPrintln  = "compile_io.println"
	BuiltinCompileIOReadFile = "compile_io.read_file"
)

var builtinSignatures = map[string]Signature{
	BuiltinPrint:             {Params: []Type{StringSlice}, Returns: Void},
	BuiltinPrintln:           {Params: []Type{StringSlice}, Returns: Void},
	BuiltinReadFile:          {Params: []Type{StringSlice}, Returns: StringSlice},
	BuiltinCallNative:        {Params: []Type{StringSlice, StringSlice}, Returns: Void},
	BuiltinCompileIOPrintln:  {Params: []Type{StringSlice}, Returns: Void},
	BuiltinCompileIOReadFile: {Params: []Type{StringSlice}, Returns: StringSlice},
}

// globals returns the top-level declarations visible to every function.
func globals() map[string]decl {
	return map[string]decl{
		BuiltinPrint:      funcDecl{sig: builtinSignatures[BuiltinPrint]},
		BuiltinPrintln:    funcDecl{sig: builtinSignatures[BuiltinPrintln]},
		BuiltinReadFile:   funcDecl{sig: builtinSignatures[BuiltinReadFile]},
		BuiltinCallNative: funcDecl{sig: builtinSignatures[BuiltinCallNative]},
		"compile_io": moduleDecl{
			"println":   funcDecl{sig: builtinSignatures[BuiltinCompileIOPrintln]},
			"read_file": funcDecl{sig: builtinSignatures[BuiltinCompileIOReadFile]},
		},
	}
}
