package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println(os.Getenv("NASA_API_KEY"))
	fmt.Println(os.Getenv("CI_TOKEN"))
}
