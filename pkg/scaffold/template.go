package scaffold

import (
	"bytes"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/rs/zerolog/log"
)

func TemplateString(pattern string, args map[string]interface{}) (string, error) {
	var output bytes.Buffer
	t := template.Must(template.New(pattern).Funcs(sprig.TxtFuncMap()).Parse(pattern))
	if err := t.Execute(&output, args); err != nil {
		return "", err
	}

	return output.String(), nil
}

func templateToFile(pattern string, destinationFile string, args map[string]interface{}) error {
	rendered, err := TemplateString(pattern, args)
	if err != nil {
		log.Error().Err(err).Str("file", destinationFile).Msg("Failed to template")
		return err
	}
	if err := os.WriteFile(destinationFile, []byte(rendered), 0o644); err != nil {
		log.Error().Err(err).Str("file", destinationFile).Msg("Failed to create")
		return err
	}
	return nil
}
