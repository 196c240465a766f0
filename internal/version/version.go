package version

import "fmt"

const (
	Version = "v0.0.1"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art of sqlitedb.
func asciiArtTpl() string {
	asciiArt := `
           _ _ _          _ _     
 ___  __ _| (_) |_ ___  __| | |__  
/ __|/ _` + "`" + ` | | | __/ _ \/ _` + "`" + ` | '_ \ 
\__ \ (_| | | | ||  __/ (_| | |_) |
|___/\__, |_|_|\__\___|\__,_|_.__/ 
        |_|
%s ` + Version

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// CLIVersion returns the version banner of the sqlitedb CLI.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}
