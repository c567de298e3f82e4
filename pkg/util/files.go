package util

import (
	"os"

	"github.com/rs/zerolog/log"
)

func RemoveFile(files ...string) {
	for _, file := range files {
		log.Debug().Str("file", file).Msg("Removing temporary")
		if err := os.Remove(file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("Failed to remove")
		}
	}
}

func RemoveDir(dirs ...string) {
	for _, dir := range dirs {
		log.Debug().Str("dir", dir).Msg("Removing temporary")
		if err := os.RemoveAll(dir); err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("Failed to remove")
		}
	}
}
