// Command jlitec compiles a single JLite source file to ARM assembly text.
package main

import (
	"fmt"
	"os"
	"strings"

	"jlite.dev/jlitec/internal/compiler"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <source.j>\n", os.Args[0])
		os.Exit(1)
	}

	srcPath := os.Args[1]
	src, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
		os.Exit(1)
	}

	result, err := compiler.Compile(src, srcPath)
	if err != nil {
		fmt.Print(err.Error())
		os.Exit(1)
	}

	out := strings.Join(result.Asm, "\n")
	fmt.Println(out)

	outPath := outputPath(srcPath)
	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
		os.Exit(1)
	}
}

// outputPath replaces src's extension with .s, or appends .s if it has
// none.
func outputPath(src string) string {
	if dot := strings.LastIndexByte(src, '.'); dot > strings.LastIndexByte(src, '/') {
		return src[:dot] + ".s"
	}
	return src + ".s"
}
