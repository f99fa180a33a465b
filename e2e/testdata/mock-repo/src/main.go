package main

import (
	"fmt"
	"os"
)

func main() {
	apiKey := os.Getenv("NASA_API_KEY")
	dbURL := os.Getenv("DATABASE_URL")
	fmt.Println(apiKey, dbURL)
}
