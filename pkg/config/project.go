package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ProjectFileName is the optional per-source defaults file.
const ProjectFileName = ".pgxm.yaml"

// Project holds defaults read from .pgxm.yaml at the source root. CLI flags
// always win over project values.
type Project struct {
	PgVersion        string   `yaml:"pg_version"`
	Platform         string   `yaml:"platform"`
	Dockerfile       string   `yaml:"dockerfile"`
	InstallCommand   string   `yaml:"install_command"`
	Dependencies     []string `yaml:"dependencies"`
	PreloadLibraries []string `yaml:"preload_libraries"`
	Test             bool     `yaml:"test"`
}

// LoadProject reads .pgxm.yaml from sourcePath. A missing file is not an
// error; an empty Project is returned.
func LoadProject(sourcePath string) (*Project, error) {
	filename := filepath.Join(sourcePath, ProjectFileName)
	file, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return &Project{}, nil
	}
	if err != nil {
		log.Error().Err(err).Msg("Error loading project config")
		return nil, err
	}
	defer file.Close()

	var p Project
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&p); errors.Is(err, io.EOF) {
		return &Project{}, nil
	} else if err != nil {
		log.Error().Err(err).Msg("Decoding YAML " + filename + " failed! Check syntax and try again")
		return nil, err
	}
	log.Debug().Str("file", filename).Interface("project", p).Msg("Loaded")
	return &p, nil
}
