package config

import "os"

func IsDebug() bool {
	return os.Getenv("CLIMAQA_DEBUG") == "1"
}
