package config

// BuilderPrefix is prepended to a parameter name to derive the default
// builder name when a declaration asks for a built default without naming
// the builder (a bare "=" clause).
const BuilderPrefix = "build_param_"

// DefaultInvocantName is the parameter name used for the implicit invocant
// when a method declaration does not name one explicitly.
const DefaultInvocantName = "self"

// ManifestFileName is the default declaration manifest looked up by the CLI.
const ManifestFileName = "sigbind.yaml"

// Built-in aggregate constraint names. Values bound under these constraints
// are spread element-wise by the aggregate retrieval accessor.
const (
	ArrayRefTypeName = "ArrayRef"
	HashRefTypeName  = "HashRef"
)
