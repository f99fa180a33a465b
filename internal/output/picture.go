package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/keyward/keyward/internal/apod"
)

// FormatPicture renders one APOD entry, either as indented JSON or as
// a human-readable block.
func FormatPicture(picture *apod.Picture, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(picture)
	}

	fmt.Printf("%s%s%s (%s)\n", getColor(colorBold), picture.Title, getColor(colorReset), picture.Date)
	if picture.Copyright != "" {
		fmt.Printf("%s© %s%s\n", getColor(colorGray), picture.Copyright, getColor(colorReset))
	}
	fmt.Println()

	if picture.Explanation != "" {
		fmt.Println(picture.Explanation)
		fmt.Println()
	}

	switch {
	case picture.HDURL != "":
		fmt.Printf("%sImage:%s %s\n", getColor(colorCyan), getColor(colorReset), picture.HDURL)
	case picture.URL != "":
		label := "Image"
		if picture.MediaType != "" && picture.MediaType != "image" {
			label = "Media"
		}
		fmt.Printf("%s%s:%s %s\n", getColor(colorCyan), label, getColor(colorReset), picture.URL)
	default:
		fmt.Printf("%sNo media URL in this entry%s\n", getColor(colorYellow), getColor(colorReset))
	}
	return nil
}
