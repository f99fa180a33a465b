package config

import "os"

var deployToken = os.Getenv("DEPLOY_TOKEN")
