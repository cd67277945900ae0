package infra

import (
	"os"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
)

// GetWorkDir expands and creates the bot's dot directory (sqlite database,
// keyword overrides).
func GetWorkDir(dotPath string) string {
	workDir, err := homedir.Expand(dotPath)
	if err != nil {
		log.Fatalln(err)
	}
	if err = os.MkdirAll(workDir, os.ModePerm); err != nil {
		log.Fatalln(err)
	}
	return workDir
}
