package config

// Flags carries the raw command line options for a build invocation.
// Unset string fields mean "resolve it for me".
type Flags struct {
	Path             string
	OutputPath       string
	Version          string
	Name             string
	ExtensionName    string
	Dependencies     string
	PreloadLibraries string
	Platform         string
	Dockerfile       string
	InstallCommand   string
	Test             bool
	PgVersion        string
	Verbose          bool
	NoColor          bool
}
