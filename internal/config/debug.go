package config

import "os"

func IsDebug() bool {
	return os.Getenv("COWORKER_DEBUG") == "1"
}
